package iplog

import "errors"

var (
	// ErrNotFound is returned when a device has no ACTIVE entry.
	ErrNotFound = errors.New("active ip log not found")

	// ErrStorage wraps failures of the underlying store.
	ErrStorage = errors.New("ip log storage failure")

	// ErrUnknownDevice is returned by Store.Rotate when the device no longer
	// exists, e.g. it was deleted outside this package.
	ErrUnknownDevice = errors.New("ip log references unknown device")

	// ErrInvalidEntry is returned when an entry lacks an id, address or ACTIVE status.
	ErrInvalidEntry = errors.New("invalid ip log entry")
)
