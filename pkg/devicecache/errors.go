package devicecache

import "errors"

// ErrEvict is returned when a cache entry could not be removed.
var ErrEvict = errors.New("devicecache: evict failed")
