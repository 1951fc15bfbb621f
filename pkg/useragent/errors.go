package useragent

import "errors"

// Parser errors. The internal parser reports them; Classify never returns
// them and falls back to Unknown attributes instead.
var (
	ErrEmptyUserAgent     = errors.New("useragent: empty user agent")
	ErrMalformedUserAgent = errors.New("useragent: no recognisable device, OS or browser")
	ErrUnknownDevice      = errors.New("useragent: unknown device type")
)
