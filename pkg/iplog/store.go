package iplog

import (
	"context"

	"github.com/google/uuid"
)

// Store persists IP log entries. At most one entry per device may be ACTIVE.
type Store interface {
	// ActiveForDevice returns the device's ACTIVE entry or ErrNotFound.
	ActiveForDevice(ctx context.Context, deviceID uuid.UUID) (*IPLog, error)

	// Rotate marks every ACTIVE entry of entry's device INACTIVE, stamping
	// entry.UpdatedAt, then inserts entry as the new ACTIVE one. It returns
	// ErrUnknownDevice when the device does not exist.
	Rotate(ctx context.Context, entry *IPLog) error

	// ListByDevice returns the device's entries, newest first.
	ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]IPLog, error)
}
