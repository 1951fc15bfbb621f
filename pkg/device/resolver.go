package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/devicetrack/pkg/logger"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

// Resolver finds or creates the device for a set of classified attributes.
type Resolver struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the clock used for created_at and updated_at.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a resolver over store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logger.Component("device"))
	return r
}

// ResolveOrCreate returns the device whose fingerprint matches info, creating
// it on first sight. An existing device is returned as stored; its attributes
// are not refreshed.
//
// Two requests from a new device may both miss the lookup and race to insert.
// The loser gets ErrDuplicateFingerprint from the store and reads the winner's
// row once. If that read still finds nothing, ErrFingerprintConflict is
// returned; there is no further retry.
func (r *Resolver) ResolveOrCreate(ctx context.Context, info useragent.Info) (*Device, error) {
	fp := info.Fingerprint()

	d, err := r.store.GetByFingerprint(ctx, fp)
	switch {
	case err == nil:
		return d, nil
	case !errors.Is(err, ErrNotFound):
		return nil, wrapStorage("lookup device", err)
	}

	d = New(info, r.now())
	err = r.store.Create(ctx, d)
	switch {
	case err == nil:
		r.logger.DebugContext(ctx, "device created", logger.DeviceID(d.ID), logger.Fingerprint(fp))
		return d, nil
	case !errors.Is(err, ErrDuplicateFingerprint):
		return nil, wrapStorage("create device", err)
	}

	winner, err := r.store.GetByFingerprint(ctx, fp)
	switch {
	case err == nil:
		r.logger.DebugContext(ctx, "concurrent device insert resolved",
			logger.DeviceID(winner.ID), logger.Fingerprint(fp))
		return winner, nil
	case errors.Is(err, ErrNotFound):
		r.logger.ErrorContext(ctx, "device fingerprint conflict without a stored row",
			logger.Fingerprint(fp))
		return nil, fmt.Errorf("%w: %s", ErrFingerprintConflict, fp)
	default:
		return nil, wrapStorage("re-read device after conflict", err)
	}
}

func wrapStorage(op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}
