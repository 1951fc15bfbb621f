package geo

import (
	"errors"
	"math"
	"net/netip"
	"strings"

	"github.com/ip2location/ip2location-go/v9"
)

// IP2LocationReader is the subset of *ip2location.DB used by the broad provider.
type IP2LocationReader interface {
	Get_all(ip string) (ip2location.IP2Locationrecord, error)
	Close()
}

// IP2Location is the broad provider backed by an IP2Location BIN database.
// It covers country, region, city, coordinates and timezone; it has no ASN data
// in the LITE editions.
type IP2Location struct {
	db IP2LocationReader
}

// NewIP2Location wraps an open IP2Location database.
func NewIP2Location(db IP2LocationReader) *IP2Location {
	return &IP2Location{db: db}
}

// OpenIP2Location opens the BIN database at path.
func OpenIP2Location(path string) (*IP2Location, error) {
	db, err := ip2location.OpenDB(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDatabase, err)
	}
	return NewIP2Location(db), nil
}

// Lookup implements Provider.
func (p *IP2Location) Lookup(ip string) (Snapshot, error) {
	if _, err := netip.ParseAddr(ip); err != nil {
		return Snapshot{}, ErrInvalidIP
	}

	rec, err := p.db.Get_all(ip)
	if err != nil {
		return Snapshot{}, errors.Join(ErrLookupFailed, err)
	}

	snap := Snapshot{
		IP:          ip,
		CountryCode: ip2Value(rec.Country_short),
		CountryName: ip2Value(rec.Country_long),
		Region:      ip2Value(rec.Region),
		City:        ip2Value(rec.City),
		Latitude:    ip2Coordinate(rec.Latitude),
		Longitude:   ip2Coordinate(rec.Longitude),
		Timezone:    ip2Value(rec.Timezone),
	}
	if snap.IsEmpty() {
		return snap, ErrAddressNotFound
	}
	return snap, nil
}

// Close releases the database file.
func (p *IP2Location) Close() error {
	p.db.Close()
	return nil
}

// ip2Value maps the placeholders the BIN format uses for missing data to nil:
// "-" for unknown addresses and a notice string for fields the edition lacks.
func ip2Value(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || v == "-" || strings.HasPrefix(v, "This parameter is unavailable") ||
		strings.HasPrefix(v, "Invalid") {
		return nil
	}
	return &v
}

func ip2Coordinate(v float32) *float64 {
	if v == 0 {
		return nil
	}
	// float32 -> float64 widening leaks binary noise, keep six decimals
	f := math.Round(float64(v)*1e6) / 1e6
	return &f
}
