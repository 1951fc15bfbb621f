package geo

// Snapshot is the location and network data known for one IP address.
// Every field except IP is optional; nil means no provider knew the value.
type Snapshot struct {
	IP          string   `json:"ip"`
	CountryCode *string  `json:"country_code,omitempty"`
	CountryName *string  `json:"country_name,omitempty"`
	Region      *string  `json:"region,omitempty"`
	City        *string  `json:"city,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Timezone    *string  `json:"timezone,omitempty"`
	ASN         *int64   `json:"asn,omitempty"`
	ASNOrg      *string  `json:"asn_org,omitempty"`
}

// Merge returns s with every field that is set in o copied over.
// IP is kept from s.
func (s Snapshot) Merge(o Snapshot) Snapshot {
	s.CountryCode = pick(o.CountryCode, s.CountryCode)
	s.CountryName = pick(o.CountryName, s.CountryName)
	s.Region = pick(o.Region, s.Region)
	s.City = pick(o.City, s.City)
	s.Latitude = pick(o.Latitude, s.Latitude)
	s.Longitude = pick(o.Longitude, s.Longitude)
	s.Timezone = pick(o.Timezone, s.Timezone)
	s.ASN = pick(o.ASN, s.ASN)
	s.ASNOrg = pick(o.ASNOrg, s.ASNOrg)
	return s
}

// IsEmpty reports whether no field besides IP is set.
func (s Snapshot) IsEmpty() bool {
	return s.CountryCode == nil && s.CountryName == nil && s.Region == nil &&
		s.City == nil && s.Latitude == nil && s.Longitude == nil &&
		s.Timezone == nil && s.ASN == nil && s.ASNOrg == nil
}

func pick[T any](preferred, fallback *T) *T {
	if preferred != nil {
		return preferred
	}
	return fallback
}

func str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
