package iplog

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/devicetrack/pkg/geo"
)

// Status of an IP log entry.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IPLog is one interval during which an address was a device's current
// network address. Only Status and UpdatedAt change after insert.
type IPLog struct {
	ID           uuid.UUID    `json:"id"`
	DeviceID     *uuid.UUID   `json:"device_id"`
	IPAddress    string       `json:"ip_address"`
	ForwardedFor *string      `json:"forwarded_for,omitempty"`
	RealIP       *string      `json:"real_ip,omitempty"`
	Accept       *string      `json:"accept,omitempty"`
	Origin       *string      `json:"origin,omitempty"`
	Status       Status       `json:"status"`
	Geo          geo.Snapshot `json:"geo"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
}

// Sighting is the network context of one request. IP is the transport
// address; the header values are kept for audit and never used to pick it.
type Sighting struct {
	IP           string
	ForwardedFor *string
	RealIP       *string
	Accept       *string
	Origin       *string
}

// newEntry builds the ACTIVE entry for a sighting.
func newEntry(deviceID uuid.UUID, s Sighting, snap geo.Snapshot, now time.Time) *IPLog {
	ms := now.UnixMilli()
	snap.IP = s.IP
	return &IPLog{
		ID:           uuid.New(),
		DeviceID:     &deviceID,
		IPAddress:    s.IP,
		ForwardedFor: s.ForwardedFor,
		RealIP:       s.RealIP,
		Accept:       s.Accept,
		Origin:       s.Origin,
		Status:       StatusActive,
		Geo:          snap,
		CreatedAt:    ms,
		UpdatedAt:    ms,
	}
}

// Validate checks the fields Store.Rotate relies on.
func (l *IPLog) Validate() error {
	if l == nil || l.ID == uuid.Nil || l.DeviceID == nil || l.IPAddress == "" || l.Status != StatusActive {
		return ErrInvalidEntry
	}
	return nil
}
