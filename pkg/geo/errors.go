package geo

import "errors"

var (
	// ErrAddressNotFound is returned by a provider that has no record for the address.
	ErrAddressNotFound = errors.New("geo: address not found")

	// ErrInvalidIP is returned when the input is not a valid IPv4 or IPv6 address.
	ErrInvalidIP = errors.New("geo: invalid ip address")

	// ErrLookupFailed wraps errors returned by the underlying database readers.
	ErrLookupFailed = errors.New("geo: lookup failed")

	// ErrFailedToOpenDatabase is returned by Open when a configured database cannot be read.
	ErrFailedToOpenDatabase = errors.New("geo: failed to open database")
)
