package useragent

// Type is the device category assigned to a request.
type Type string

const (
	TypeMobile  Type = "MOBILE"
	TypeTablet  Type = "TABLET"
	TypeDesktop Type = "DESKTOP"
	TypeBot     Type = "BOT"
	TypeUnknown Type = "UNKNOWN"
)

// Valid reports whether t is one of the declared device types.
func (t Type) Valid() bool {
	switch t {
	case TypeMobile, TypeTablet, TypeDesktop, TypeBot, TypeUnknown:
		return true
	}
	return false
}

// Unknown is the value used for OS, browser and device family when the user
// agent could not be parsed at all.
const Unknown = "Unknown"

// Other is used when parsing succeeded but a particular attribute was not
// recognised.
const Other = "Other"

// Device kinds produced by the keyword classifier. They are finer grained than
// Type: TVs and consoles have no Type of their own and surface as UNKNOWN.
const (
	kindBot     = "bot"
	kindMobile  = "mobile"
	kindTablet  = "tablet"
	kindDesktop = "desktop"
	kindTV      = "tv"
	kindConsole = "console"
	kindUnknown = "unknown"
)

// Device model names reported as device family for handheld devices.
const (
	ModelIPhone        = "iPhone"
	ModelIPad          = "iPad"
	ModelSamsung       = "Samsung"
	ModelHuawei        = "Huawei"
	ModelXiaomi        = "Xiaomi"
	ModelOppo          = "Oppo"
	ModelVivo          = "Vivo"
	ModelAndroid       = "Generic Android"
	ModelAndroidTablet = "Generic Android Tablet"
	ModelKindleFire    = "Kindle Fire"
	ModelSurface       = "Surface"
	ModelSmartTV       = "Smart TV"
	ModelConsole       = "Game Console"
)

// Browser names.
const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"
	BrowserIE      = "IE"
	BrowserSamsung = "Samsung Internet"
	BrowserUC      = "UC Browser"
	BrowserQQ      = "QQ Browser"
	BrowserHuawei  = "Huawei Browser"
	BrowserVivo    = "Vivo Browser"
	BrowserMIUI    = "MIUI Browser"
	BrowserBrave   = "Brave"
	BrowserVivaldi = "Vivaldi"
	BrowserYandex  = "Yandex Browser"
)

// Operating system names.
const (
	OSWindows      = "Windows"
	OSWindowsPhone = "Windows Phone"
	OSMacOS        = "Mac OS X"
	OSiOS          = "iOS"
	OSAndroid      = "Android"
	OSLinux        = "Linux"
	OSChromeOS     = "Chrome OS"
	OSHarmonyOS    = "HarmonyOS"
	OSFireOS       = "Fire OS"
)

// Client hint header names captured from requests.
const (
	HeaderUserAgent       = "User-Agent"
	HeaderSecCHUA         = "Sec-CH-UA"
	HeaderSecCHUAPlatform = "Sec-CH-UA-Platform"
	HeaderSecCHUAMobile   = "Sec-CH-UA-Mobile"
)

// mobileHintTrue is the structured-header boolean true sent in Sec-CH-UA-Mobile.
const mobileHintTrue = "?1"
