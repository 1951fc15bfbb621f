package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Separator is placed between components before hashing.
const Separator = "|"

// Components are the classified device attributes a fingerprint is derived
// from. Nil pointers and empty strings are equivalent: both hash as an empty
// component, so a value that goes missing between requests does not split
// one device into two.
type Components struct {
	UserAgent      *string
	OS             string
	OSVersion      *string
	Browser        string
	BrowserVersion *string
	DeviceFamily   *string
	IsTouch        bool
}

// escaper keeps the joined string unambiguous when a component itself
// contains the separator, e.g. ("a|b", "c") vs ("a", "b|c").
var escaper = strings.NewReplacer(`\`, `\\`, Separator, `\`+Separator)

// Generate returns the hex-encoded SHA-256 of the components in a fixed order:
// user agent, OS, OS version, browser, browser version, device family, touch.
// The result is always 64 lowercase hex characters.
func Generate(c Components) string {
	fields := [...]string{
		deref(c.UserAgent),
		c.OS,
		deref(c.OSVersion),
		c.Browser,
		deref(c.BrowserVersion),
		deref(c.DeviceFamily),
		strconv.FormatBool(c.IsTouch),
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString(Separator)
		}
		b.WriteString(escaper.Replace(f))
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}

// Validate reports whether fp is the fingerprint of c.
func Validate(c Components, fp string) bool {
	return Generate(c) == fp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
