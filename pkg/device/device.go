package device

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

// Device is one distinct device and browser configuration. It is created the
// first time its fingerprint is seen and never changed afterwards.
type Device struct {
	ID             uuid.UUID             `json:"id"`
	Fingerprint    string                `json:"fingerprint"`
	Type           useragent.Type        `json:"type"`
	OS             string                `json:"os"`
	OSVersion      *string               `json:"os_version,omitempty"`
	Browser        string                `json:"browser"`
	BrowserVersion *string               `json:"browser_version,omitempty"`
	DeviceFamily   *string               `json:"device_family,omitempty"`
	IsTouch        bool                  `json:"is_touch"`
	UserAgent      *string               `json:"user_agent,omitempty"`
	ClientHints    useragent.ClientHints `json:"client_hints"`
	CreatedAt      int64                 `json:"created_at"`
	UpdatedAt      int64                 `json:"updated_at"`
}

// New builds a device from classified attributes. Timestamps are Unix
// milliseconds.
func New(info useragent.Info, now time.Time) *Device {
	ms := now.UnixMilli()
	return &Device{
		ID:             uuid.New(),
		Fingerprint:    info.Fingerprint(),
		Type:           info.Type,
		OS:             info.OS,
		OSVersion:      info.OSVersion,
		Browser:        info.Browser,
		BrowserVersion: info.BrowserVersion,
		DeviceFamily:   info.DeviceFamily,
		IsTouch:        info.IsTouch,
		UserAgent:      info.UserAgent,
		ClientHints:    info.ClientHints,
		CreatedAt:      ms,
		UpdatedAt:      ms,
	}
}

// Info returns the classified attributes the device was created from.
func (d *Device) Info() useragent.Info {
	return useragent.Info{
		Type:           d.Type,
		OS:             d.OS,
		OSVersion:      d.OSVersion,
		Browser:        d.Browser,
		BrowserVersion: d.BrowserVersion,
		DeviceFamily:   d.DeviceFamily,
		IsTouch:        d.IsTouch,
		UserAgent:      d.UserAgent,
		ClientHints:    d.ClientHints,
	}
}

// Validate checks the fields every store relies on.
func (d *Device) Validate() error {
	if d == nil || d.ID == uuid.Nil || len(d.Fingerprint) != 64 {
		return ErrInvalidDevice
	}
	return nil
}
