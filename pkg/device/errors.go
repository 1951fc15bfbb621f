package device

import "errors"

var (
	// ErrNotFound is returned by a Store when no device has the fingerprint.
	ErrNotFound = errors.New("device not found")

	// ErrDuplicateFingerprint is returned by Store.Create when the fingerprint
	// unique constraint rejects the insert.
	ErrDuplicateFingerprint = errors.New("device fingerprint already exists")

	// ErrFingerprintConflict means an insert collided on the fingerprint but the
	// row it collided with could not be read back. This is not retried.
	ErrFingerprintConflict = errors.New("device fingerprint conflict could not be resolved")

	// ErrStorage wraps failures of the underlying store.
	ErrStorage = errors.New("device storage failure")

	// ErrInvalidDevice is returned when a device is missing its id or fingerprint.
	ErrInvalidDevice = errors.New("invalid device")
)
