// Package device identifies client devices by fingerprint and persists them.
//
// A Device is created from classified user agent attributes (see package
// useragent) the first time its fingerprint is seen. Attributes are fixed at
// creation: later requests with the same fingerprint get the stored row back
// unchanged.
//
// Resolver.ResolveOrCreate is an optimistic find-or-create. It relies on the
// Store's unique fingerprint constraint rather than any in-process lock, so
// concurrent first sightings across processes still produce a single row:
//
//	lookup -> miss -> insert -> ErrDuplicateFingerprint -> lookup once -> winner
//
// Store implementations live in pgstore (PostgreSQL) and mongostore (MongoDB);
// MemoryStore serves tests and local development. devicecache adds a Redis
// read-through layer in front of any Store.
package device
