// Package fingerprint derives a deterministic device identifier from
// classified device attributes.
//
// The identifier is a SHA-256 digest over a fixed-order, separator-joined
// list of components (user agent, OS and version, browser and version,
// device family, touch capability). No cookie, token or network address
// participates, so the same browser configuration maps to the same
// fingerprint from any IP.
//
//	fp := fingerprint.Generate(fingerprint.Components{
//	    UserAgent: &ua,
//	    OS:        "iOS",
//	    Browser:   "Safari",
//	    IsTouch:   true,
//	})
//
// Unset and empty optional components hash identically. Separator characters
// inside components are escaped, so distinct component tuples never collapse
// into the same pre-image.
//
// SetFingerprintToContext and GetFingerprintFromContext carry the value
// through a request context once it has been computed.
package fingerprint
