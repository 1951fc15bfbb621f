// Package tracker wires device classification, device identity and IP history
// into a single call per HTTP request.
//
// Service.OnRequest takes the request headers and the transport address:
//
//	headers -> useragent.Classify -> device.Resolver -> iplog.Manager -> Result
//
// Middleware runs it before the handler and stores the Result in the request
// context together with the fingerprint (fingerprint.GetFingerprintFromContext)
// and the client IP (clientip.GetIPFromContext).
//
// Storage failures are returned as ErrTrackingFailed. Whether they fail the
// request is the middleware's choice: by default it logs and continues with
// only the classified Info available; WithFailClosed answers 503 instead.
//
//	r := chi.NewRouter()
//	r.Use(tracker.Middleware(svc, tracker.WithSkipPaths("/health")))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//		info, _ := tracker.GetInfoFromContext(r.Context())
//		_ = info
//	})
package tracker
