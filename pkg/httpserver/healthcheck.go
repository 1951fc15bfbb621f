package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/devicetrack/pkg/logger"
)

// Check is a named dependency probe, usually a storage Healthcheck.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler runs every check concurrently, each bounded by timeout.
// It answers 200 with status "ok" when all pass and 503 with status
// "unavailable" otherwise. Without checks it is a plain liveness probe.
func HealthCheckHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		results := make([]string, len(checks))

		var g errgroup.Group
		for i, c := range checks {
			g.Go(func() error {
				ctx, cancel := context.WithTimeout(r.Context(), timeout)
				defer cancel()
				if err := c.Fn(ctx); err != nil {
					log.WarnContext(ctx, "health check failed", slog.String("check", c.Name), logger.Error(err))
					results[i] = "error"
					return err
				}
				results[i] = "ok"
				return nil
			})
		}
		err := g.Wait()

		resp := healthResponse{Status: "ok"}
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
			for i, c := range checks {
				resp.Checks[c.Name] = results[i]
			}
		}
		status := http.StatusOK
		if err != nil {
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
