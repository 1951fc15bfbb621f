package tracker

import "errors"

// ErrTrackingFailed is returned by Service.OnRequest when the device or its IP
// history could not be persisted. The underlying error is joined to it.
var ErrTrackingFailed = errors.New("device tracking failed")
