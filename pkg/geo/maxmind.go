package geo

import (
	"errors"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// MMDBReader is the subset of *maxminddb.Reader used by the precise provider.
type MMDBReader interface {
	LookupNetwork(ip net.IP, result any) (*net.IPNet, bool, error)
	Close() error
}

// MaxMind is the precise provider backed by GeoLite2/GeoIP2 databases.
// Any of the readers may be nil.
type MaxMind struct {
	city    MMDBReader
	asn     MMDBReader
	country MMDBReader
}

// NewMaxMind builds the provider from open City, ASN and Country readers.
func NewMaxMind(city, asn, country MMDBReader) *MaxMind {
	return &MaxMind{city: city, asn: asn, country: country}
}

// Lookup implements Provider. It returns ErrAddressNotFound when none of the
// databases has a record for ip.
func (p *MaxMind) Lookup(ip string) (Snapshot, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return Snapshot{}, ErrInvalidIP
	}

	snap := Snapshot{IP: ip}
	found := false

	if p.country != nil {
		var rec geoip2.Country
		ok, err := lookup(p.country, addr, &rec)
		if err != nil {
			return Snapshot{}, err
		}
		if ok {
			found = true
			snap.CountryCode = str(rec.Country.IsoCode)
			snap.CountryName = str(rec.Country.Names["en"])
		}
	}

	if p.city != nil {
		var rec geoip2.City
		ok, err := lookup(p.city, addr, &rec)
		if err != nil {
			return Snapshot{}, err
		}
		if ok {
			found = true
			city := citySnapshot(&rec)
			city.IP = ip
			// the Country database wins for country fields when both are open
			snap = city.Merge(snap)
		}
	}

	if p.asn != nil {
		var rec geoip2.ASN
		ok, err := lookup(p.asn, addr, &rec)
		if err != nil {
			return Snapshot{}, err
		}
		if ok {
			found = true
			if rec.AutonomousSystemNumber > 0 {
				n := int64(rec.AutonomousSystemNumber)
				snap.ASN = &n
			}
			snap.ASNOrg = str(rec.AutonomousSystemOrganization)
		}
	}

	if !found {
		return snap, ErrAddressNotFound
	}
	return snap, nil
}

// Close closes every reader and joins their errors.
func (p *MaxMind) Close() error {
	var errs []error
	for _, r := range []MMDBReader{p.city, p.asn, p.country} {
		if r != nil {
			errs = append(errs, r.Close())
		}
	}
	return errors.Join(errs...)
}

func lookup(r MMDBReader, ip net.IP, result any) (bool, error) {
	_, ok, err := r.LookupNetwork(ip, result)
	if err != nil {
		return false, errors.Join(ErrLookupFailed, err)
	}
	return ok, nil
}

// citySnapshot converts a City record. The most specific subdivision is used
// as the region; a 0,0 location is treated as unknown.
func citySnapshot(rec *geoip2.City) Snapshot {
	var s Snapshot
	s.CountryCode = str(rec.Country.IsoCode)
	s.CountryName = str(rec.Country.Names["en"])
	if n := len(rec.Subdivisions); n > 0 {
		s.Region = str(rec.Subdivisions[n-1].Names["en"])
	}
	s.City = str(rec.City.Names["en"])
	if rec.Location.Latitude != 0 || rec.Location.Longitude != 0 {
		lat, lon := rec.Location.Latitude, rec.Location.Longitude
		s.Latitude, s.Longitude = &lat, &lon
	}
	s.Timezone = str(rec.Location.TimeZone)
	return s
}
