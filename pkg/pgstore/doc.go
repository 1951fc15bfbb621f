// Package pgstore implements device.Store and iplog.Store on PostgreSQL.
//
// The schema ships as embedded goose migrations (Migrations). Two constraints
// carry the concurrency guarantees:
//
//   - devices_fingerprint_key: a unique constraint on devices.fingerprint. A
//     losing concurrent insert surfaces as device.ErrDuplicateFingerprint.
//   - ip_logs_one_active_per_device: a partial unique index on
//     ip_logs(device_id) WHERE status = 'ACTIVE'.
//
// IPLogs.Rotate locks the device row with SELECT ... FOR UPDATE, deactivates
// the current ACTIVE entry and inserts the new one, all in one transaction.
// Deleting a device sets device_id on its IP log entries to NULL.
package pgstore
