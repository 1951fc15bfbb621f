// Package mongostore implements device.Store and iplog.Store on MongoDB.
//
// Documents use string UUIDs as _id. EnsureIndexes must run once at startup;
// it creates the unique fingerprint index and a partial unique index that
// allows one ACTIVE ip_logs document per device.
//
// Unlike the PostgreSQL store, IPLogs.Rotate is two separate writes. Between
// them a device briefly has no ACTIVE entry, which the next sighting repairs
// by inserting one.
package mongostore
