package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client address of the TCP peer that sent the request.
//
// Forwarding headers (X-Forwarded-For, X-Real-IP, CF-Connecting-IP, ...) are
// client-controlled and never consulted here. Callers that want them for
// auditing should read them separately and store them as untrusted values.
func GetIP(r *http.Request) string {
	return FromRemoteAddr(r.RemoteAddr)
}

// FromRemoteAddr extracts and normalizes the IP part of a transport address
// such as "203.0.113.7:5123" or "[2001:db8::1]:443". A bare IP is accepted.
// Returns an empty string when no valid IP can be found.
func FromRemoteAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// No port: the address may already be a bare IP (unix sockets and some
		// test harnesses set RemoteAddr that way).
		host = strings.Trim(addr, "[]")
	}

	// Zone identifiers ("fe80::1%eth0") are meaningless outside the host.
	if i := strings.IndexByte(host, '%'); i >= 0 {
		host = host[:i]
	}

	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
// Returns empty string if the IP is invalid.
func parseIP(ipStr string) string {
	ip := net.ParseIP(strings.TrimSpace(ipStr))
	if ip == nil {
		return ""
	}
	return ip.String()
}

// Forwarded holds the proxy headers exactly as the client sent them. They are
// recorded for auditing and must not be used to identify the client.
type Forwarded struct {
	For    *string
	RealIP *string
}

// ForwardedFromHeader captures X-Forwarded-For and X-Real-IP. A nil field
// means the header was absent.
func ForwardedFromHeader(h http.Header) Forwarded {
	return Forwarded{
		For:    headerValue(h, "X-Forwarded-For"),
		RealIP: headerValue(h, "X-Real-IP"),
	}
}

func headerValue(h http.Header, key string) *string {
	values, ok := h[http.CanonicalHeaderKey(key)]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.Join(values, ", ")
	return &v
}
