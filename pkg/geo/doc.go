// Package geo resolves IP addresses to location and network data.
//
// A Resolver combines two providers. The broad provider (IP2Location BIN
// database) is queried first and forms the base snapshot; the precise provider
// (MaxMind GeoLite2 City, ASN and optionally Country databases) is queried
// second and each value it returns replaces the base value. Fields neither
// provider knows stay nil.
//
// Resolve never returns an error. A failing broad provider leaves an empty
// base; a precise provider that reports ErrAddressNotFound, or fails in any
// other way, leaves the base untouched. Failures are logged at debug level,
// except unexpected precise provider errors which are logged as warnings.
//
// Timezones are normalized with NormalizeTimezone: an IANA name gets its
// current offset appended, a bare "+06:00" offset becomes "UTC+06:00".
//
// Databases are opened once with Open and shared read-only by all requests:
//
//	res, err := geo.Open(cfg, log)
//	if err != nil {
//		return err
//	}
//	defer res.Close()
//
//	snap := res.Resolve(ctx, "203.0.113.7")
package geo
