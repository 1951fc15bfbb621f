package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/pg"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

// Devices implements device.Store on PostgreSQL.
type Devices struct {
	pool *pgxpool.Pool
}

// NewDevices creates a device store.
func NewDevices(pool *pgxpool.Pool) *Devices {
	return &Devices{pool: pool}
}

const deviceColumns = `id, fingerprint, type, os, os_version, browser, browser_version,
	device_family, is_touch, user_agent, client_hints, created_at, updated_at`

// GetByFingerprint implements device.Store.
func (s *Devices) GetByFingerprint(ctx context.Context, fingerprint string) (*device.Device, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE fingerprint = $1`, fingerprint)

	d, err := scanDevice(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, device.ErrNotFound
		}
		return nil, errors.Join(device.ErrStorage, err)
	}
	return d, nil
}

// Create implements device.Store. A fingerprint collision is reported as
// device.ErrDuplicateFingerprint.
func (s *Devices) Create(ctx context.Context, d *device.Device) error {
	if err := d.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO devices (`+deviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		d.ID, d.Fingerprint, string(d.Type), d.OS, d.OSVersion, d.Browser, d.BrowserVersion,
		d.DeviceFamily, d.IsTouch, d.UserAgent, d.ClientHints, d.CreatedAt, d.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case pg.IsUniqueViolation(err, constraintFingerprint):
		return device.ErrDuplicateFingerprint
	default:
		return errors.Join(device.ErrStorage, err)
	}
}

func scanDevice(row pgx.Row) (*device.Device, error) {
	var (
		d   device.Device
		typ string
	)
	err := row.Scan(
		&d.ID, &d.Fingerprint, &typ, &d.OS, &d.OSVersion, &d.Browser, &d.BrowserVersion,
		&d.DeviceFamily, &d.IsTouch, &d.UserAgent, &d.ClientHints, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Type = useragent.Type(typ)
	return &d, nil
}
