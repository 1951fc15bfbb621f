package iplog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/devicetrack/pkg/geo"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
)

// GeoResolver resolves an address to a geo snapshot. *geo.Resolver satisfies it.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) geo.Snapshot
}

// Manager keeps each device's IP history.
type Manager struct {
	store  Store
	geo    GeoResolver
	logger *slog.Logger
	now    func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the clock used for entry timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager. resolver may be nil, in which case entries
// carry no geo data.
func NewManager(store Store, resolver GeoResolver, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		geo:    resolver,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("iplog"))
	return m
}

// RecordSighting records that deviceID was seen from s.IP.
//
// With no client address it does nothing and returns nil. When the device's
// ACTIVE entry already has the address, that entry is returned as is: no geo
// lookup and no write. Otherwise the address is geo-resolved and the store
// rotates the ACTIVE entry to a new one for the address.
func (m *Manager) RecordSighting(ctx context.Context, deviceID uuid.UUID, s Sighting) (*IPLog, error) {
	if s.IP == "" {
		return nil, nil
	}

	active, err := m.store.ActiveForDevice(ctx, deviceID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, wrapStorage("lookup active ip", err)
	}
	if active != nil && active.IPAddress == s.IP {
		return active, nil
	}

	var snap geo.Snapshot
	if m.geo != nil {
		snap = m.geo.Resolve(ctx, s.IP)
	}

	entry := newEntry(deviceID, s, snap, m.now())
	if err := m.store.Rotate(ctx, entry); err != nil {
		return nil, wrapStorage("rotate active ip", err)
	}

	attrs := []any{logger.DeviceID(deviceID), logger.ClientIP(s.IP)}
	if active != nil {
		attrs = append(attrs, slog.String("previous_ip", active.IPAddress))
	}
	m.logger.DebugContext(ctx, "active ip changed", attrs...)

	return entry, nil
}

// Active returns the device's current ACTIVE entry, or ErrNotFound.
func (m *Manager) Active(ctx context.Context, deviceID uuid.UUID) (*IPLog, error) {
	entry, err := m.store.ActiveForDevice(ctx, deviceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, wrapStorage("lookup active ip", err)
	}
	return entry, nil
}

// History returns every entry recorded for the device, newest first.
func (m *Manager) History(ctx context.Context, deviceID uuid.UUID) ([]IPLog, error) {
	entries, err := m.store.ListByDevice(ctx, deviceID)
	if err != nil {
		return nil, wrapStorage("list ip history", err)
	}
	return entries, nil
}

func wrapStorage(op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}
