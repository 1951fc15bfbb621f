package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/devicetrack/pkg/iplog"
	"github.com/dmitrymomot/devicetrack/pkg/pg"
)

// IPLogs implements iplog.Store on PostgreSQL.
type IPLogs struct {
	pool *pgxpool.Pool
}

// NewIPLogs creates an IP log store.
func NewIPLogs(pool *pgxpool.Pool) *IPLogs {
	return &IPLogs{pool: pool}
}

const ipLogColumns = `id, device_id, ip_address, forwarded_for, real_ip, accept, origin, status,
	country_code, country_name, region, city, latitude, longitude, timezone, asn, asn_org,
	created_at, updated_at`

// ActiveForDevice implements iplog.Store.
func (s *IPLogs) ActiveForDevice(ctx context.Context, deviceID uuid.UUID) (*iplog.IPLog, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+ipLogColumns+` FROM ip_logs WHERE device_id = $1 AND status = 'ACTIVE'`, deviceID)

	entry, err := scanIPLog(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, iplog.ErrNotFound
		}
		return nil, errors.Join(iplog.ErrStorage, err)
	}
	return entry, nil
}

// Rotate implements iplog.Store in a single transaction. The device row is
// locked first so concurrent rotations for one device run one after another;
// the partial unique index on ACTIVE entries backs this up.
func (s *IPLogs) Rotate(ctx context.Context, entry *iplog.IPLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM devices WHERE id = $1 FOR UPDATE`, *entry.DeviceID).Scan(&locked)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return iplog.ErrUnknownDevice
			}
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE ip_logs SET status = 'INACTIVE', updated_at = $2
			WHERE device_id = $1 AND status = 'ACTIVE'`,
			*entry.DeviceID, entry.UpdatedAt,
		); err != nil {
			return err
		}

		g := entry.Geo
		_, err = tx.Exec(ctx,
			`INSERT INTO ip_logs (`+ipLogColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			entry.ID, *entry.DeviceID, entry.IPAddress, entry.ForwardedFor, entry.RealIP, entry.Accept,
			entry.Origin, string(entry.Status),
			g.CountryCode, g.CountryName, g.Region, g.City, g.Latitude, g.Longitude, g.Timezone, g.ASN, g.ASNOrg,
			entry.CreatedAt, entry.UpdatedAt,
		)
		if pg.IsForeignKeyViolationError(err) {
			return iplog.ErrUnknownDevice
		}
		return err
	})
	if err != nil {
		return errors.Join(iplog.ErrStorage, err)
	}
	return nil
}

// ListByDevice implements iplog.Store.
func (s *IPLogs) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]iplog.IPLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+ipLogColumns+` FROM ip_logs WHERE device_id = $1 ORDER BY created_at DESC, id`, deviceID)
	if err != nil {
		return nil, errors.Join(iplog.ErrStorage, err)
	}
	defer rows.Close()

	var out []iplog.IPLog
	for rows.Next() {
		entry, err := scanIPLog(rows)
		if err != nil {
			return nil, errors.Join(iplog.ErrStorage, err)
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(iplog.ErrStorage, err)
	}
	return out, nil
}

func scanIPLog(row pgx.Row) (*iplog.IPLog, error) {
	var (
		e        iplog.IPLog
		deviceID pgtype.UUID
		status   string
	)
	err := row.Scan(
		&e.ID, &deviceID, &e.IPAddress, &e.ForwardedFor, &e.RealIP, &e.Accept, &e.Origin, &status,
		&e.Geo.CountryCode, &e.Geo.CountryName, &e.Geo.Region, &e.Geo.City,
		&e.Geo.Latitude, &e.Geo.Longitude, &e.Geo.Timezone, &e.Geo.ASN, &e.Geo.ASNOrg,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deviceID.Valid {
		id := uuid.UUID(deviceID.Bytes)
		e.DeviceID = &id
	}
	e.Status = iplog.Status(status)
	e.Geo.IP = e.IPAddress
	return &e, nil
}
