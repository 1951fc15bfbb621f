package tracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/devicetrack/pkg/clientip"
	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/iplog"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

// DeviceResolver finds or creates the device for classified attributes.
// *device.Resolver satisfies it.
type DeviceResolver interface {
	ResolveOrCreate(ctx context.Context, info useragent.Info) (*device.Device, error)
}

// SightingRecorder updates a device's IP history. *iplog.Manager satisfies it.
type SightingRecorder interface {
	RecordSighting(ctx context.Context, deviceID uuid.UUID, s iplog.Sighting) (*iplog.IPLog, error)
}

// DeviceEvicter drops a cached device by fingerprint. *devicecache.Store
// satisfies it.
type DeviceEvicter interface {
	Evict(ctx context.Context, fingerprint string) error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDeviceEvicter registers the cache to clear when storage reports that a
// resolved device no longer exists.
func WithDeviceEvicter(e DeviceEvicter) ServiceOption {
	return func(s *Service) {
		s.evicter = e
	}
}

// Result is what tracking one request produced. IPLog is nil when the request
// had no usable client address.
type Result struct {
	Info   useragent.Info
	Device *device.Device
	IPLog  *iplog.IPLog
}

// Service runs device identification and IP history for a request.
type Service struct {
	devices DeviceResolver
	ips     SightingRecorder
	evicter DeviceEvicter
	logger  *slog.Logger
}

// NewService creates a tracking service.
func NewService(devices DeviceResolver, ips SightingRecorder, log *slog.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		devices: devices,
		ips:     ips,
		logger:  log.With(logger.Component("tracker")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnRequest classifies the client from headers, resolves its device and
// records the transport address in the device's IP history. Classification
// and geo lookups never fail; storage failures are returned wrapped in
// ErrTrackingFailed. Info is populated even when an error is returned.
//
// When storage reports the resolved device unknown (deleted after it was
// resolved, or served stale by a cache) the cache entry is evicted and the
// device is resolved and recorded once more.
func (s *Service) OnRequest(ctx context.Context, h http.Header, remoteAddr string) (Result, error) {
	res := Result{
		Info: useragent.Classify(useragent.UserAgentFromHeader(h), useragent.ClientHintsFromHeader(h)),
	}

	fwd := clientip.ForwardedFromHeader(h)
	sighting := iplog.Sighting{
		IP:           clientip.FromRemoteAddr(remoteAddr),
		ForwardedFor: fwd.For,
		RealIP:       fwd.RealIP,
		Accept:       header(h, "Accept"),
		Origin:       header(h, "Origin"),
	}

	d, entry, err := s.track(ctx, res.Info, sighting)
	if errors.Is(err, iplog.ErrUnknownDevice) {
		fp := res.Info.Fingerprint()
		s.logger.WarnContext(ctx, "resolved device no longer exists, resolving again",
			logger.DeviceID(d.ID), logger.Fingerprint(fp))
		if s.evicter != nil {
			_ = s.evicter.Evict(ctx, fp)
		}
		d, entry, err = s.track(ctx, res.Info, sighting)
	}
	res.Device, res.IPLog = d, entry
	if err != nil {
		return res, errors.Join(ErrTrackingFailed, err)
	}
	return res, nil
}

// track resolves the device and records the sighting. The device is returned
// when only the sighting failed.
func (s *Service) track(ctx context.Context, info useragent.Info, sighting iplog.Sighting) (*device.Device, *iplog.IPLog, error) {
	d, err := s.devices.ResolveOrCreate(ctx, info)
	if err != nil {
		return nil, nil, err
	}
	entry, err := s.ips.RecordSighting(ctx, d.ID, sighting)
	if err != nil {
		return d, nil, err
	}
	return d, entry, nil
}

func header(h http.Header, key string) *string {
	if _, ok := h[http.CanonicalHeaderKey(key)]; !ok {
		return nil
	}
	v := h.Get(key)
	return &v
}
