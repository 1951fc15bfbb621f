package redis

import "errors"

// Connection errors. Connect and Healthcheck join them with the driver error.
var (
	ErrEmptyConnectionURL   = errors.New("redis: connection URL is empty")
	ErrInvalidConnectionURL = errors.New("redis: invalid connection URL")
	ErrNotReady             = errors.New("redis: server did not answer ping before the deadline")
	ErrHealthcheckFailed    = errors.New("redis: healthcheck failed")
)
