package mongo

import "errors"

var (
	// ErrConnect is returned by New once every connect attempt failed.
	ErrConnect = errors.New("mongo: could not connect")
	// ErrHealthcheckFailed wraps a failed ping.
	ErrHealthcheckFailed = errors.New("mongo: healthcheck failed")
)
