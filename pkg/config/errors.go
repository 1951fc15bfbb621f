package config

import "errors"

var (
	ErrNilPointer     = errors.New("config: Load called with a nil pointer")
	ErrParsingConfig  = errors.New("config: cannot parse environment into struct")
	ErrLoadingEnvFile = errors.New("config: cannot read env file")
)
