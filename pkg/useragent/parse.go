package useragent

import (
	"strings"

	"github.com/mssola/user_agent"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// parsed is the intermediate result of reading a user agent string. Keyword
// matching supplies kind, model, OS and browser; mssola/user_agent supplies
// the signals it is better at (OS version, bot flag, mobile token, platform).
type parsed struct {
	kind    string
	model   string
	os      string
	browser browser
	ua      *user_agent.UserAgent
	botName string
}

// parse classifies a raw user agent. It fails for empty strings and for
// strings that carry no recognisable device, OS or browser token.
func parse(raw string) (parsed, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return parsed{}, ErrEmptyUserAgent
	}

	lowerUA := strings.ToLower(raw)
	p := parsed{
		kind:    parseKind(lowerUA),
		os:      parseOS(lowerUA),
		browser: parseBrowser(lowerUA),
		ua:      user_agent.New(raw),
	}
	p.model = parseModel(lowerUA, p.kind)

	if p.kind == kindUnknown && p.ua.Bot() {
		p.kind = kindBot
	}

	if p.kind == kindBot {
		p.botName = extractBotName(lowerUA, p.ua)
	}

	if p.kind == kindUnknown {
		if p.os == "" && p.browser.name == "" {
			return p, ErrMalformedUserAgent
		}
		if !strings.Contains(lowerUA, "mozilla") {
			return p, ErrUnknownDevice
		}
	}

	return p, nil
}

var titleCaser = cases.Title(language.English)

// crawlerMarkers are substrings that make a token look like a crawler name.
var crawlerMarkers = []string{"bot", "spider", "crawler"}

// extractBotName returns a display name for a crawler, e.g. "Googlebot".
// mssola reports the crawler as the browser for well known bots; scanning the
// UA tokens is the fallback.
func extractBotName(lowerUA string, ua *user_agent.UserAgent) string {
	if name, _ := ua.Browser(); isCrawlerName(strings.ToLower(name)) {
		return name
	}

	tokens := strings.FieldsFunc(lowerUA, func(r rune) bool {
		return strings.ContainsRune(" ;()/,+", r)
	})
	for _, token := range tokens {
		if token != "bot" && isCrawlerName(token) {
			return titleCaser.String(token)
		}
	}

	return Other
}

func isCrawlerName(s string) bool {
	for _, m := range crawlerMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
