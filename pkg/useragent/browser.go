package useragent

import (
	"regexp"
	"strings"
)

// browser is the name and version pulled from a user agent.
type browser struct {
	name    string
	version string
}

// browserRule matches when the UA carries every token in all and none of the
// tokens in none. version captures the version number in group 1.
type browserRule struct {
	name    string
	all     []string
	none    []string
	version *regexp.Regexp
}

func (r browserRule) matches(lowerUA string) bool {
	for _, t := range r.all {
		if !strings.Contains(lowerUA, t) {
			return false
		}
	}
	for _, t := range r.none {
		if strings.Contains(lowerUA, t) {
			return false
		}
	}
	return true
}

const maxVersionLen = 20

func (r browserRule) extractVersion(lowerUA string) string {
	if r.version == nil {
		return ""
	}
	m := r.version.FindStringSubmatch(lowerUA)
	if len(m) < 2 {
		return ""
	}
	return truncate(m[1], maxVersionLen)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func versionAfter(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + token + `[/\s]([\d.]+)`)
}

// Chromium forks all advertise "chrome" and Chrome advertises "safari", so
// rules run in declaration order, most specific first.
var browserRules = []browserRule{
	{name: BrowserEdge, all: []string{"edg/"}, version: versionAfter(`(?:edge|edg)`)},
	{name: BrowserEdge, all: []string{"edge/"}, version: versionAfter(`(?:edge|edg)`)},
	{name: BrowserSamsung, all: []string{"samsungbrowser"}, version: versionAfter("samsungbrowser")},
	{name: BrowserUC, all: []string{"ucbrowser"}, version: versionAfter("ucbrowser")},
	{name: BrowserQQ, all: []string{"qqbrowser"}, version: versionAfter(`(?:qqbrowser|qq)`)},
	{name: BrowserQQ, all: []string{"qq", "browser"}, version: versionAfter(`(?:qqbrowser|qq)`)},
	{name: BrowserHuawei, all: []string{"huaweibrowser"}, version: versionAfter("huaweibrowser")},
	{name: BrowserVivo, all: []string{"vivobrowser"}, version: versionAfter("vivobrowser")},
	{name: BrowserMIUI, all: []string{"miuibrowser"}, version: versionAfter("miuibrowser")},
	{name: BrowserMIUI, all: []string{"miui"}, version: versionAfter("miui")},
	{name: BrowserYandex, all: []string{"yabrowser"}, version: versionAfter("yabrowser")},
	{name: BrowserYandex, all: []string{"yandexbrowser"}, version: versionAfter("yandexbrowser")},
	{name: BrowserVivaldi, all: []string{"vivaldi"}, version: versionAfter("vivaldi")},
	{name: BrowserBrave, all: []string{"brave"}, version: versionAfter("brave")},
	{name: BrowserOpera, all: []string{"opr"}, version: versionAfter("opr")},
	{name: BrowserOpera, all: []string{"opera"}, version: versionAfter("opera")},
	{name: BrowserChrome, all: []string{"chrome"}, version: versionAfter("chrome")},
	{name: BrowserChrome, all: []string{"crios"}, version: versionAfter("crios")},
	{name: BrowserFirefox, all: []string{"firefox"}, version: versionAfter("firefox")},
	{name: BrowserFirefox, all: []string{"fxios"}, version: versionAfter("fxios")},
	{name: BrowserSafari, all: []string{"safari"}, none: []string{"chrome", "firefox"}, version: versionAfter("version")},
	{name: BrowserIE, all: []string{"msie"}, version: regexp.MustCompile(`(?i)msie ([\d.]+)`)},
}

// parseBrowser returns the browser name and version. The name is empty when
// no rule matched.
func parseBrowser(lowerUA string) browser {
	// IE 11 drops the MSIE token and only carries Trident
	if strings.Contains(lowerUA, "trident/") && !strings.Contains(lowerUA, "msie") {
		return browser{name: BrowserIE, version: "11.0"}
	}

	for _, r := range browserRules {
		if r.matches(lowerUA) {
			return browser{name: r.name, version: r.extractVersion(lowerUA)}
		}
	}
	return browser{}
}
