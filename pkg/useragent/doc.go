// Package useragent classifies client devices from the User-Agent header and
// User-Agent Client Hints.
//
// Classify is the entry point. It combines a keyword classifier (device kind,
// device model, OS family, browser and version) with
// github.com/mssola/user_agent, which supplies the OS version, bot and mobile
// signals and the desktop platform token. The result is an Info value whose
// Type follows the priority bot > mobile > tablet > desktop > unknown.
//
// Classification never fails. An empty or unrecognisable user agent yields
//
//	Info{Type: TypeUnknown, OS: "Unknown", Browser: "Unknown", DeviceFamily: "Unknown"}
//
// with versions unset and touch false.
//
// Client hints are applied after parsing: a non-empty Sec-CH-UA-Platform value
// replaces the OS (surrounding quotes removed) and Sec-CH-UA-Mobile "?1" forces
// IsTouch. The raw hints are kept on Info verbatim; an absent header is nil.
//
// # Usage
//
//	info := useragent.Classify(
//		useragent.UserAgentFromHeader(r.Header),
//		useragent.ClientHintsFromHeader(r.Header),
//	)
//	fp := info.Fingerprint()
package useragent
