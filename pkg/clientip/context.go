package clientip

import "context"

type ipContextKey struct{}

// SetIPToContext returns a copy of ctx carrying the client IP.
func SetIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipContextKey{}, ip)
}

// GetIPFromContext returns the client IP stored by SetIPToContext.
func GetIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(ipContextKey{}).(string); ok {
		return ip
	}
	return ""
}
