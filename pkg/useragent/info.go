package useragent

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/devicetrack/pkg/fingerprint"
)

// ClientHints holds the raw User-Agent Client Hints sent with a request.
// A nil field means the header was absent; a present header is kept verbatim,
// including surrounding quotes.
type ClientHints struct {
	Brands   *string `json:"sec-ch-ua"`
	Platform *string `json:"sec-ch-ua-platform"`
	Mobile   *string `json:"sec-ch-ua-mobile"`
}

// ClientHintsFromHeader captures client hints from request headers.
func ClientHintsFromHeader(h http.Header) ClientHints {
	return ClientHints{
		Brands:   headerValue(h, HeaderSecCHUA),
		Platform: headerValue(h, HeaderSecCHUAPlatform),
		Mobile:   headerValue(h, HeaderSecCHUAMobile),
	}
}

// UserAgentFromHeader returns the User-Agent header, or nil when absent.
func UserAgentFromHeader(h http.Header) *string {
	return headerValue(h, HeaderUserAgent)
}

func headerValue(h http.Header, key string) *string {
	values, ok := h[http.CanonicalHeaderKey(key)]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// Info is the classified view of a client device. It is what callers receive
// for each request and what a device record is created from.
type Info struct {
	Type           Type        `json:"type"`
	OS             string      `json:"os"`
	OSVersion      *string     `json:"os_version,omitempty"`
	Browser        string      `json:"browser"`
	BrowserVersion *string     `json:"browser_version,omitempty"`
	DeviceFamily   *string     `json:"device_family,omitempty"`
	IsTouch        bool        `json:"is_touch"`
	UserAgent      *string     `json:"user_agent,omitempty"`
	ClientHints    ClientHints `json:"client_hints"`
}

// Fingerprint returns the device fingerprint for the classified attributes.
func (i Info) Fingerprint() string {
	return fingerprint.Generate(i.Components())
}

// Components returns the attributes that make up the fingerprint.
func (i Info) Components() fingerprint.Components {
	return fingerprint.Components{
		UserAgent:      i.UserAgent,
		OS:             i.OS,
		OSVersion:      i.OSVersion,
		Browser:        i.Browser,
		BrowserVersion: i.BrowserVersion,
		DeviceFamily:   i.DeviceFamily,
		IsTouch:        i.IsTouch,
	}
}

// Classify derives device attributes from a user agent and client hints.
// It never fails: anything that cannot be parsed yields the UNKNOWN defaults.
// Client hints are applied last: a non-empty platform hint replaces the OS
// and a mobile hint of "?1" forces touch.
func Classify(ua *string, hints ClientHints) Info {
	var raw string
	if ua != nil {
		raw = *ua
	}

	info := Info{
		Type:         TypeUnknown,
		OS:           Unknown,
		Browser:      Unknown,
		DeviceFamily: ptr(Unknown),
		ClientHints:  hints,
	}
	if raw != "" {
		info.UserAgent = ptr(raw)
	}

	if p, err := parse(raw); err == nil {
		info.Type = p.deviceType()
		info.OS = orOther(p.os)
		info.Browser = orOther(p.browser.name)
		info.BrowserVersion = nonEmpty(p.browser.version)
		info.OSVersion = nonEmpty(p.ua.OSInfo().Version)
		info.DeviceFamily = ptr(p.deviceFamily(info.Type))
		info.IsTouch = info.Type == TypeMobile || info.Type == TypeTablet
	}

	// a present platform hint wins even when it is empty
	if hints.Platform != nil {
		info.OS = strings.Trim(strings.TrimSpace(*hints.Platform), `"`)
	}
	if hints.Mobile != nil && strings.TrimSpace(*hints.Mobile) == mobileHintTrue {
		info.IsTouch = true
	}

	return info
}

// deviceType applies the priority bot > mobile > tablet > desktop > unknown.
func (p parsed) deviceType() Type {
	switch {
	case p.kind == kindBot || p.ua.Bot():
		return TypeBot
	case p.kind == kindMobile || (p.kind != kindTablet && p.ua.Mobile()):
		return TypeMobile
	case p.kind == kindTablet:
		return TypeTablet
	case p.kind == kindDesktop:
		return TypeDesktop
	default:
		return TypeUnknown
	}
}

func (p parsed) deviceFamily(t Type) string {
	switch t {
	case TypeBot:
		if p.botName != "" {
			return p.botName
		}
		return extractBotName(strings.ToLower(p.ua.UA()), p.ua)
	case TypeMobile, TypeTablet:
		if p.model != "" {
			return p.model
		}
		if m := p.ua.Model(); m != "" {
			return m
		}
	case TypeDesktop:
		if platform := p.ua.Platform(); platform != "" {
			return platform
		}
	default:
		if p.model != "" {
			return p.model
		}
	}
	return Other
}

func orOther(s string) string {
	if s == "" {
		return Other
	}
	return s
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T { return &v }
