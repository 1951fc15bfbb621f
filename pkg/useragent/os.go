package useragent

// osRule maps a keyword set to an OS name. HarmonyOS and Fire OS agents also
// say "android", and Windows Phone says "windows", so order matters.
type osRule struct {
	name     string
	keywords keywordSet
}

var osRules = []osRule{
	{OSWindowsPhone, newKeywordSet("windows phone")},
	{OSWindows, newKeywordSet("windows")},
	{OSiOS, newKeywordSet("iphone", "ipad", "ipod")},
	{OSMacOS, newKeywordSet("macintosh", "mac os x")},
	{OSHarmonyOS, newKeywordSet("harmonyos")},
	{OSFireOS, newKeywordSet("kindle", "silk")},
	{OSAndroid, newKeywordSet("android")},
	{OSChromeOS, newKeywordSet("cros", "chromeos", "chrome os")},
	{OSLinux, newKeywordSet("linux", "ubuntu", "debian", "fedora", "mint", "x11")},
}

// parseOS returns the operating system family, or "" when none matched.
func parseOS(lowerUA string) string {
	if lowerUA == "" {
		return ""
	}
	for _, r := range osRules {
		if r.keywords.contains(lowerUA) {
			return r.name
		}
	}
	return ""
}
