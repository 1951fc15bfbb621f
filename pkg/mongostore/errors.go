package mongostore

import "errors"

var (
	// ErrConcurrentRotation is returned by IPLogs.Rotate when another rotation
	// for the same device inserted its ACTIVE entry first.
	ErrConcurrentRotation = errors.New("concurrent ip rotation for device")

	// ErrInvalidDocument is returned when a stored document cannot be mapped
	// back to a domain value.
	ErrInvalidDocument = errors.New("invalid stored document")
)
