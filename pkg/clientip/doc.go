// Package clientip extracts the client IP address from the transport layer of
// an HTTP request.
//
// Only http.Request.RemoteAddr is trusted. Proxy headers are ignored
// because any client can forge them; device tracking records them
// verbatim for audit purposes but never treats them as the authoritative
// address. Deployments behind a trusted reverse proxy should rewrite
// RemoteAddr at the edge (for example with chi's middleware.RealIP) before
// this package runs.
//
//	ip := clientip.GetIP(r)              // "203.0.113.7"
//	ip = clientip.FromRemoteAddr("[::1]:80") // "::1"
//
// ForwardedFromHeader collects X-Forwarded-For and X-Real-IP for the audit
// trail. SetIPToContext stores the address in a request context and
// GetIPFromContext reads it back, returning "" when nothing was stored.
package clientip
