package mongostore

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/geo"
	"github.com/dmitrymomot/devicetrack/pkg/iplog"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

type hintsDoc struct {
	Brands   *string `bson:"sec_ch_ua"`
	Platform *string `bson:"sec_ch_ua_platform"`
	Mobile   *string `bson:"sec_ch_ua_mobile"`
}

type deviceDoc struct {
	ID             string   `bson:"_id"`
	Fingerprint    string   `bson:"fingerprint"`
	Type           string   `bson:"type"`
	OS             string   `bson:"os"`
	OSVersion      *string  `bson:"os_version"`
	Browser        string   `bson:"browser"`
	BrowserVersion *string  `bson:"browser_version"`
	DeviceFamily   *string  `bson:"device_family"`
	IsTouch        bool     `bson:"is_touch"`
	UserAgent      *string  `bson:"user_agent"`
	ClientHints    hintsDoc `bson:"client_hints"`
	CreatedAt      int64    `bson:"created_at"`
	UpdatedAt      int64    `bson:"updated_at"`
}

func toDeviceDoc(d *device.Device) deviceDoc {
	return deviceDoc{
		ID:             d.ID.String(),
		Fingerprint:    d.Fingerprint,
		Type:           string(d.Type),
		OS:             d.OS,
		OSVersion:      d.OSVersion,
		Browser:        d.Browser,
		BrowserVersion: d.BrowserVersion,
		DeviceFamily:   d.DeviceFamily,
		IsTouch:        d.IsTouch,
		UserAgent:      d.UserAgent,
		ClientHints: hintsDoc{
			Brands:   d.ClientHints.Brands,
			Platform: d.ClientHints.Platform,
			Mobile:   d.ClientHints.Mobile,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (doc deviceDoc) toDevice() (*device.Device, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	return &device.Device{
		ID:             id,
		Fingerprint:    doc.Fingerprint,
		Type:           useragent.Type(doc.Type),
		OS:             doc.OS,
		OSVersion:      doc.OSVersion,
		Browser:        doc.Browser,
		BrowserVersion: doc.BrowserVersion,
		DeviceFamily:   doc.DeviceFamily,
		IsTouch:        doc.IsTouch,
		UserAgent:      doc.UserAgent,
		ClientHints: useragent.ClientHints{
			Brands:   doc.ClientHints.Brands,
			Platform: doc.ClientHints.Platform,
			Mobile:   doc.ClientHints.Mobile,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

type geoDoc struct {
	CountryCode *string  `bson:"country_code,omitempty"`
	CountryName *string  `bson:"country_name,omitempty"`
	Region      *string  `bson:"region,omitempty"`
	City        *string  `bson:"city,omitempty"`
	Latitude    *float64 `bson:"latitude,omitempty"`
	Longitude   *float64 `bson:"longitude,omitempty"`
	Timezone    *string  `bson:"timezone,omitempty"`
	ASN         *int64   `bson:"asn,omitempty"`
	ASNOrg      *string  `bson:"asn_org,omitempty"`
}

type ipLogDoc struct {
	ID           string  `bson:"_id"`
	DeviceID     *string `bson:"device_id"`
	IPAddress    string  `bson:"ip_address"`
	ForwardedFor *string `bson:"forwarded_for"`
	RealIP       *string `bson:"real_ip"`
	Accept       *string `bson:"accept"`
	Origin       *string `bson:"origin"`
	Status       string  `bson:"status"`
	Geo          geoDoc  `bson:"geo"`
	CreatedAt    int64   `bson:"created_at"`
	UpdatedAt    int64   `bson:"updated_at"`
}

func toIPLogDoc(e *iplog.IPLog) ipLogDoc {
	doc := ipLogDoc{
		ID:           e.ID.String(),
		IPAddress:    e.IPAddress,
		ForwardedFor: e.ForwardedFor,
		RealIP:       e.RealIP,
		Accept:       e.Accept,
		Origin:       e.Origin,
		Status:       string(e.Status),
		Geo: geoDoc{
			CountryCode: e.Geo.CountryCode,
			CountryName: e.Geo.CountryName,
			Region:      e.Geo.Region,
			City:        e.Geo.City,
			Latitude:    e.Geo.Latitude,
			Longitude:   e.Geo.Longitude,
			Timezone:    e.Geo.Timezone,
			ASN:         e.Geo.ASN,
			ASNOrg:      e.Geo.ASNOrg,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.DeviceID != nil {
		id := e.DeviceID.String()
		doc.DeviceID = &id
	}
	return doc
}

func (doc ipLogDoc) toIPLog() (*iplog.IPLog, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	e := &iplog.IPLog{
		ID:           id,
		IPAddress:    doc.IPAddress,
		ForwardedFor: doc.ForwardedFor,
		RealIP:       doc.RealIP,
		Accept:       doc.Accept,
		Origin:       doc.Origin,
		Status:       iplog.Status(doc.Status),
		Geo: geo.Snapshot{
			IP:          doc.IPAddress,
			CountryCode: doc.Geo.CountryCode,
			CountryName: doc.Geo.CountryName,
			Region:      doc.Geo.Region,
			City:        doc.Geo.City,
			Latitude:    doc.Geo.Latitude,
			Longitude:   doc.Geo.Longitude,
			Timezone:    doc.Geo.Timezone,
			ASN:         doc.Geo.ASN,
			ASNOrg:      doc.Geo.ASNOrg,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.DeviceID != nil {
		deviceID, err := uuid.Parse(*doc.DeviceID)
		if err != nil {
			return nil, errors.Join(ErrInvalidDocument, err)
		}
		e.DeviceID = &deviceID
	}
	return e, nil
}
