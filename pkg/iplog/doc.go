// Package iplog keeps the history of network addresses each device was seen
// from.
//
// Every device is in one of two states: it has no ACTIVE entry, or exactly one
// ACTIVE entry for its current address. Manager.RecordSighting drives the
// transitions:
//
//   - no client address: nothing happens
//   - same address as the ACTIVE entry: the entry is returned, no geo lookup,
//     no write
//   - anything else: geo-resolve the address, mark the old entry INACTIVE and
//     insert a new ACTIVE one
//
// The client address always comes from the transport. X-Forwarded-For,
// X-Real-IP, Accept and Origin are stored with each entry for audit only.
//
// Store.Rotate performs the deactivate-then-insert step. The PostgreSQL store
// runs it in one transaction; the MongoDB store runs two writes, so a crash in
// between can leave a device with no ACTIVE entry until its next sighting,
// which simply creates one.
package iplog
