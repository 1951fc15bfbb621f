package device

import "context"

// Store persists devices. Implementations must enforce fingerprint uniqueness
// at the storage level and report a violation as ErrDuplicateFingerprint.
type Store interface {
	// GetByFingerprint returns ErrNotFound when no device matches.
	GetByFingerprint(ctx context.Context, fingerprint string) (*Device, error)

	// Create inserts d. It returns ErrDuplicateFingerprint when another device
	// already holds the fingerprint.
	Create(ctx context.Context, d *Device) error
}
