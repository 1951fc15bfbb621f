package useragent

import (
	"strings"
)

// keywordSet optimizes keyword lookups using map structure
type keywordSet map[string]struct{}

func newKeywordSet(keywords ...string) keywordSet {
	result := make(keywordSet, len(keywords))
	for _, word := range keywords {
		result[word] = struct{}{}
	}
	return result
}

func (k keywordSet) contains(s string) bool {
	for keyword := range k {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// Keyword sets organized by device kind.
// Bot detection includes social media crawlers and monitoring tools. Social
// apps are matched by their crawler tokens only: their in-app browsers
// ("[LinkedInApp]", "TwitterAndroid") are real users.
var (
	botKeywords     = newKeywordSet("bot", "spider", "crawler", "archiver", "lighthouse", "slurp", "daum", "sogou", "yeti", "facebookexternalhit", "twitterbot", "slackbot", "slack-imgproxy", "linkedinbot", "whatsapp/", "telegrambot", "discordbot", "camo asset", "generator", "monitor", "analyzer", "validator", "fetcher", "scraper", "headlesschrome")
	tvKeywords      = newKeywordSet("smart-tv", "smarttv", "appletv", "googletv", "android tv", "webos", "tizen", "hbbtv")
	consoleKeywords = newKeywordSet("playstation", "xbox", "nintendo", "wiiu")
	tabletKeywords  = newKeywordSet("tablet", "kindle", "silk")
	mobileKeywords  = newKeywordSet("mobile", "iphone", "android", "windows phone", "iemobile", "blackberry", "nokia")
	desktopKeywords = newKeywordSet("windows", "macintosh", "mac os x", "linux", "x11", "ubuntu", "fedora", "debian", "chromeos", "cros")

	samsungMobileWords = newKeywordSet("samsung", "sm-g", "sm-a", "sm-n", "sm-s", "samsungbrowser")
	huaweiMobileWords  = newKeywordSet("huawei", "hwa-", "honor", "h60-", "h30-")
	xiaomiMobileWords  = newKeywordSet("xiaomi", "redmi", "miui")
	oppoMobileWords    = newKeywordSet("oppo", "cph1", "cph2")
	vivoMobileWords    = newKeywordSet("vivo ", "vivo/", "viv-", "v1730", "v1731")

	samsungTabletWords = newKeywordSet("sm-t", "gt-p", "sm-p", "sm-x")
	huaweiTabletWords  = newKeywordSet("mediapad", "agassi")
	kindleWords        = newKeywordSet("kindle", "silk", "kftt", "kfjwi")
)

// parseKind classifies the device using string matching on the lower-cased UA.
// iOS identifiers are unambiguous and checked first; Android phones carry a
// "mobile" token that Android tablets omit.
func parseKind(lowerUA string) string {
	if lowerUA == "" {
		return kindUnknown
	}

	if strings.Contains(lowerUA, "ipad") {
		return kindTablet
	}

	if strings.Contains(lowerUA, "iphone") || strings.Contains(lowerUA, "ipod") {
		return kindMobile
	}

	if botKeywords.contains(lowerUA) {
		return kindBot
	}

	if tvKeywords.contains(lowerUA) {
		return kindTV
	}

	if strings.Contains(lowerUA, "android") {
		if strings.Contains(lowerUA, "mobile") {
			return kindMobile
		}
		return kindTablet
	}

	if tabletKeywords.contains(lowerUA) {
		return kindTablet
	}

	if mobileKeywords.contains(lowerUA) {
		return kindMobile
	}

	if consoleKeywords.contains(lowerUA) {
		return kindConsole
	}

	// Windows tablets need a touch marker before general desktop matching
	if strings.Contains(lowerUA, "windows") &&
		(strings.Contains(lowerUA, "touch") || strings.Contains(lowerUA, "tablet")) {
		return kindTablet
	}

	if desktopKeywords.contains(lowerUA) {
		return kindDesktop
	}

	return kindUnknown
}

// parseModel identifies the device brand for handheld, TV and console kinds.
// Returns an empty string when nothing specific is known.
func parseModel(lowerUA, kind string) string {
	switch kind {
	case kindMobile:
		switch {
		case strings.Contains(lowerUA, "iphone"), strings.Contains(lowerUA, "ipod"):
			return ModelIPhone
		case samsungMobileWords.contains(lowerUA):
			return ModelSamsung
		case huaweiMobileWords.contains(lowerUA):
			return ModelHuawei
		case xiaomiMobileWords.contains(lowerUA):
			return ModelXiaomi
		case oppoMobileWords.contains(lowerUA):
			return ModelOppo
		case vivoMobileWords.contains(lowerUA):
			return ModelVivo
		case strings.Contains(lowerUA, "android"):
			return ModelAndroid
		}
	case kindTablet:
		switch {
		case strings.Contains(lowerUA, "ipad"):
			return ModelIPad
		case strings.Contains(lowerUA, "windows"):
			return ModelSurface
		case strings.Contains(lowerUA, "samsung"), samsungTabletWords.contains(lowerUA):
			return ModelSamsung
		case strings.Contains(lowerUA, "huawei"), huaweiTabletWords.contains(lowerUA):
			return ModelHuawei
		case kindleWords.contains(lowerUA):
			return ModelKindleFire
		case strings.Contains(lowerUA, "android"):
			return ModelAndroidTablet
		}
	case kindTV:
		return ModelSmartTV
	case kindConsole:
		return ModelConsole
	}
	return ""
}
