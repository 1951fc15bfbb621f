// Package devicecache puts a Redis read-through cache in front of a
// device.Store.
//
// Keys are "<prefix><fingerprint>" and values are the JSON-encoded device.
// Devices are immutable once created, so entries never need updating. A device
// deleted outside this module is dropped with Evict, which tracker.Service
// calls when storage reports the device unknown. Lookups that miss the cache and the store are not cached, so a
// first sighting always reaches the store's unique constraint.
package devicecache
