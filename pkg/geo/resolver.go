package geo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"time"

	"github.com/dmitrymomot/devicetrack/pkg/logger"
)

// Resolver merges a broad and a precise provider into one Snapshot.
// Either provider may be nil.
type Resolver struct {
	broad   Provider
	precise Provider
	closers []io.Closer
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the clock used to compute timezone offsets.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCloser registers a resource released by Close.
func WithCloser(c io.Closer) Option {
	return func(r *Resolver) {
		if c != nil {
			r.closers = append(r.closers, c)
		}
	}
}

// NewResolver creates a resolver over the broad and precise providers.
func NewResolver(broad, precise Provider, opts ...Option) *Resolver {
	r := &Resolver{
		broad:   broad,
		precise: precise,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("geo"))
	return r
}

// Resolve returns the merged snapshot for ip. It never fails: provider errors
// are logged and leave the affected fields unset. An invalid address yields a
// snapshot with only IP set and no provider is consulted.
func (r *Resolver) Resolve(ctx context.Context, ip string) Snapshot {
	if _, err := netip.ParseAddr(ip); err != nil {
		r.logger.DebugContext(ctx, "skipping geo lookup for invalid ip", logger.ClientIP(ip))
		return Snapshot{IP: ip}
	}

	base := Snapshot{IP: ip}
	if r.broad != nil {
		snap, err := r.broad.Lookup(ip)
		if err != nil {
			r.logger.DebugContext(ctx, "broad geo lookup failed",
				logger.ClientIP(ip), logger.Provider("broad"), logger.Error(err))
		} else {
			base = base.Merge(r.normalize(snap))
		}
	}

	if r.precise == nil {
		return base
	}

	snap, err := r.precise.Lookup(ip)
	switch {
	case errors.Is(err, ErrAddressNotFound):
		r.logger.DebugContext(ctx, "address not found in precise geo database",
			logger.ClientIP(ip), logger.Provider("precise"))
		return base
	case err != nil:
		r.logger.WarnContext(ctx, "precise geo lookup failed",
			logger.ClientIP(ip), logger.Provider("precise"), logger.Error(err))
		return base
	}

	return base.Merge(r.normalize(snap))
}

// Close releases every database opened for this resolver.
func (r *Resolver) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Resolver) normalize(s Snapshot) Snapshot {
	if s.Timezone != nil {
		s.Timezone = NormalizeTimezone(*s.Timezone, r.now())
	}
	return s
}
