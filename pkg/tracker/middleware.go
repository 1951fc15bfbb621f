package tracker

import (
	"net/http"
	"slices"

	"github.com/dmitrymomot/devicetrack/pkg/clientip"
	"github.com/dmitrymomot/devicetrack/pkg/fingerprint"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
)

// ErrorHandler handles a tracking failure. It must write the response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareOptions)

type middlewareOptions struct {
	failClosed   bool
	errorHandler ErrorHandler
	skipPaths    []string
}

// WithFailClosed rejects requests with 503 when tracking fails. By default
// the failure is logged and the request continues without a device.
func WithFailClosed() MiddlewareOption {
	return func(o *middlewareOptions) {
		o.failClosed = true
	}
}

// WithErrorHandler sets the response for tracking failures. It implies
// fail-closed.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(o *middlewareOptions) {
		if h != nil {
			o.failClosed = true
			o.errorHandler = h
		}
	}
}

// WithSkipPaths disables tracking for the exact request paths given,
// e.g. health checks.
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.skipPaths = append(o.skipPaths, paths...)
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
}

// Middleware tracks every request through svc and stores the Result, the
// device fingerprint and the client IP in the request context.
func Middleware(svc *Service, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := &middlewareOptions{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(o.skipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := clientip.GetIP(r)
			res, err := svc.OnRequest(ctx, r.Header, r.RemoteAddr)
			if err != nil {
				svc.logger.ErrorContext(ctx, "device tracking failed",
					logger.Error(err), logger.ClientIP(ip), logger.Path(r.URL.Path))
				if o.failClosed {
					o.errorHandler(w, r, err)
					return
				}
			}

			ctx = SetResultToContext(ctx, res)
			ctx = fingerprint.SetFingerprintToContext(ctx, res.Info.Fingerprint())
			ctx = clientip.SetIPToContext(ctx, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
