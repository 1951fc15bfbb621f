package tracker

import (
	"context"

	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

type resultContextKey struct{}

// SetResultToContext returns a copy of ctx carrying the tracking result.
func SetResultToContext(ctx context.Context, res Result) context.Context {
	return context.WithValue(ctx, resultContextKey{}, res)
}

// GetResultFromContext returns the result stored by Middleware.
func GetResultFromContext(ctx context.Context) (Result, bool) {
	res, ok := ctx.Value(resultContextKey{}).(Result)
	return res, ok
}

// GetInfoFromContext returns the classified device info for the request.
func GetInfoFromContext(ctx context.Context) (useragent.Info, bool) {
	res, ok := GetResultFromContext(ctx)
	return res.Info, ok
}
