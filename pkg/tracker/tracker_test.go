package tracker_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devicetrack/pkg/clientip"
	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/fingerprint"
	"github.com/dmitrymomot/devicetrack/pkg/geo"
	"github.com/dmitrymomot/devicetrack/pkg/iplog"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
	"github.com/dmitrymomot/devicetrack/pkg/tracker"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func strPtr(s string) *string { return &s }

type stubGeo struct{}

func (stubGeo) Resolve(_ context.Context, ip string) geo.Snapshot {
	country := "NL"
	return geo.Snapshot{IP: ip, CountryCode: &country}
}

type env struct {
	svc     *tracker.Service
	devices *device.MemoryStore
	ips     *iplog.MemoryStore
}

func newEnv() env {
	devices := device.NewMemoryStore()
	ips := iplog.NewMemoryStore()
	svc := tracker.NewService(
		device.NewResolver(devices, device.WithLogger(logger.Nop())),
		iplog.NewManager(ips, stubGeo{}, iplog.WithLogger(logger.Nop())),
		logger.Nop(),
	)
	return env{svc: svc, devices: devices, ips: ips}
}

func TestService_OnRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("iphone without hints", func(t *testing.T) {
		t.Parallel()
		e := newEnv()
		h := http.Header{}
		h.Set("User-Agent", iPhoneUA)
		h.Set("X-Forwarded-For", "198.51.100.1")
		h.Set("Accept", "text/html")

		res, err := e.svc.OnRequest(ctx, h, "203.0.113.7:51234")
		require.NoError(t, err)

		assert.Equal(t, useragent.TypeMobile, res.Info.Type)
		assert.True(t, res.Info.IsTouch)
		require.NotNil(t, res.Device)
		assert.Equal(t, res.Info.Fingerprint(), res.Device.Fingerprint)
		require.NotNil(t, res.IPLog)
		assert.Equal(t, "203.0.113.7", res.IPLog.IPAddress, "transport address wins over headers")
		assert.Equal(t, "198.51.100.1", *res.IPLog.ForwardedFor)
		assert.Equal(t, "text/html", *res.IPLog.Accept)
		assert.Nil(t, res.IPLog.Origin)
		assert.Equal(t, "NL", *res.IPLog.Geo.CountryCode)
	})

	t.Run("absent user agent", func(t *testing.T) {
		t.Parallel()
		e := newEnv()

		res, err := e.svc.OnRequest(ctx, http.Header{}, "203.0.113.7:51234")
		require.NoError(t, err)

		assert.Equal(t, useragent.TypeUnknown, res.Info.Type)
		assert.Equal(t, "Unknown", res.Info.OS)
		assert.Equal(t, "Unknown", res.Info.Browser)
		require.NotNil(t, res.Device)
	})

	t.Run("mobile hint on desktop agent", func(t *testing.T) {
		t.Parallel()
		e := newEnv()
		h := http.Header{}
		h.Set("User-Agent", desktopUA)
		h.Set("Sec-CH-UA-Mobile", "?1")
		h.Set("Sec-CH-UA-Platform", `"Android"`)

		res, err := e.svc.OnRequest(ctx, h, "203.0.113.7:51234")
		require.NoError(t, err)

		assert.True(t, res.Info.IsTouch)
		assert.Equal(t, "Android", res.Info.OS)
		assert.True(t, res.Device.IsTouch)
		require.NotNil(t, res.Device.ClientHints.Mobile)
		assert.Equal(t, "?1", *res.Device.ClientHints.Mobile)
		assert.Nil(t, res.Device.ClientHints.Brands)
	})

	t.Run("repeat requests reuse device and entry", func(t *testing.T) {
		t.Parallel()
		e := newEnv()
		h := http.Header{}
		h.Set("User-Agent", iPhoneUA)

		first, err := e.svc.OnRequest(ctx, h, "203.0.113.7:1")
		require.NoError(t, err)
		second, err := e.svc.OnRequest(ctx, h, "203.0.113.7:2")
		require.NoError(t, err)

		assert.Equal(t, first.Device.ID, second.Device.ID)
		assert.Equal(t, first.IPLog.ID, second.IPLog.ID)
		assert.Equal(t, 1, e.devices.Len())

		third, err := e.svc.OnRequest(ctx, h, "198.51.100.20:3")
		require.NoError(t, err)
		assert.NotEqual(t, first.IPLog.ID, third.IPLog.ID)
		assert.Equal(t, 1, e.ips.CountActive(first.Device.ID))
	})

	t.Run("unparseable remote address skips ip history", func(t *testing.T) {
		t.Parallel()
		e := newEnv()

		res, err := e.svc.OnRequest(ctx, http.Header{}, "@")
		require.NoError(t, err)
		require.NotNil(t, res.Device)
		assert.Nil(t, res.IPLog)
	})

	t.Run("device storage failure", func(t *testing.T) {
		t.Parallel()
		errDown := errors.New("db down")
		svc := tracker.NewService(failingResolver{err: errDown}, nil, logger.Nop())
		h := http.Header{}
		h.Set("User-Agent", iPhoneUA)

		res, err := svc.OnRequest(ctx, h, "203.0.113.7:1")
		require.ErrorIs(t, err, tracker.ErrTrackingFailed)
		require.ErrorIs(t, err, errDown)
		assert.Equal(t, useragent.TypeMobile, res.Info.Type)
		assert.Nil(t, res.Device)
	})

	t.Run("ip history failure", func(t *testing.T) {
		t.Parallel()
		errDown := errors.New("db down")
		svc := tracker.NewService(
			device.NewResolver(device.NewMemoryStore(), device.WithLogger(logger.Nop())),
			failingRecorder{err: errDown},
			logger.Nop(),
		)

		res, err := svc.OnRequest(ctx, http.Header{}, "203.0.113.7:1")
		require.ErrorIs(t, err, tracker.ErrTrackingFailed)
		require.ErrorIs(t, err, errDown)
		assert.NotNil(t, res.Device)
		assert.Nil(t, res.IPLog)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	newRequest := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "203.0.113.7:51234"
		req.Header.Set("User-Agent", iPhoneUA)
		return req
	}

	t.Run("stores result in context", func(t *testing.T) {
		t.Parallel()
		e := newEnv()

		var (
			res    tracker.Result
			ok     bool
			fp, ip string
		)
		handler := tracker.Middleware(e.svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok = tracker.GetResultFromContext(r.Context())
			fp = fingerprint.GetFingerprintFromContext(r.Context())
			ip = clientip.GetIPFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("/"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.True(t, ok)
		require.NotNil(t, res.Device)
		assert.Equal(t, res.Device.Fingerprint, fp)
		assert.Equal(t, "203.0.113.7", ip)

		info, ok := tracker.GetInfoFromContext(newRequest("/").Context())
		assert.False(t, ok)
		assert.Equal(t, useragent.Info{}, info)
	})

	t.Run("fails open by default", func(t *testing.T) {
		t.Parallel()
		svc := tracker.NewService(failingResolver{err: errors.New("db down")}, nil, logger.Nop())

		var info useragent.Info
		handler := tracker.Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, _ = tracker.GetInfoFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("/"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, useragent.TypeMobile, info.Type)
	})

	t.Run("fail closed", func(t *testing.T) {
		t.Parallel()
		svc := tracker.NewService(failingResolver{err: errors.New("db down")}, nil, logger.Nop())

		called := false
		handler := tracker.Middleware(svc, tracker.WithFailClosed())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("/"))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.False(t, called)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		svc := tracker.NewService(failingResolver{err: errors.New("db down")}, nil, logger.Nop())

		var got error
		handler := tracker.Middleware(svc, tracker.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusTeapot)
		}))(http.NotFoundHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest("/"))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, tracker.ErrTrackingFailed)
	})

	t.Run("skip paths", func(t *testing.T) {
		t.Parallel()
		e := newEnv()

		var tracked bool
		handler := tracker.Middleware(e.svc, tracker.WithSkipPaths("/health"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, tracked = tracker.GetResultFromContext(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), newRequest("/health"))

		assert.False(t, tracked)
		assert.Zero(t, e.devices.Len())
	})
}

type failingResolver struct{ err error }

func (f failingResolver) ResolveOrCreate(context.Context, useragent.Info) (*device.Device, error) {
	return nil, f.err
}

type failingRecorder struct{ err error }

func (f failingRecorder) RecordSighting(context.Context, uuid.UUID, iplog.Sighting) (*iplog.IPLog, error) {
	return nil, f.err
}

// staleResolver keeps returning a device that storage no longer has until it
// is evicted, like a cache in front of a store.
type staleResolver struct {
	stale   *device.Device
	next    *device.Resolver
	evicted []string
	calls   int
}

func (r *staleResolver) ResolveOrCreate(ctx context.Context, info useragent.Info) (*device.Device, error) {
	r.calls++
	if len(r.evicted) == 0 {
		return r.stale, nil
	}
	return r.next.ResolveOrCreate(ctx, info)
}

func (r *staleResolver) Evict(_ context.Context, fingerprint string) error {
	r.evicted = append(r.evicted, fingerprint)
	return nil
}

// orphanRecorder rejects sightings for one device id the way a store does
// after the device row was deleted.
type orphanRecorder struct {
	deleted uuid.UUID
	next    *iplog.Manager
}

func (r orphanRecorder) RecordSighting(ctx context.Context, deviceID uuid.UUID, s iplog.Sighting) (*iplog.IPLog, error) {
	if deviceID == r.deleted {
		return nil, errors.Join(iplog.ErrStorage, iplog.ErrUnknownDevice)
	}
	return r.next.RecordSighting(ctx, deviceID, s)
}

func TestService_OnRequest_DeletedDevice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := http.Header{}
	h.Set("User-Agent", desktopUA)
	info := useragent.Classify(strPtr(desktopUA), useragent.ClientHints{})
	stale := device.New(info, time.Now())

	newResolver := func() *staleResolver {
		return &staleResolver{
			stale: stale,
			next:  device.NewResolver(device.NewMemoryStore(), device.WithLogger(logger.Nop())),
		}
	}
	recorder := orphanRecorder{
		deleted: stale.ID,
		next:    iplog.NewManager(iplog.NewMemoryStore(), nil, iplog.WithLogger(logger.Nop())),
	}

	t.Run("evicts and resolves again", func(t *testing.T) {
		t.Parallel()
		resolver := newResolver()
		svc := tracker.NewService(resolver, recorder, logger.Nop(), tracker.WithDeviceEvicter(resolver))

		res, err := svc.OnRequest(ctx, h, "203.0.113.7:1000")
		require.NoError(t, err)

		assert.Equal(t, []string{info.Fingerprint()}, resolver.evicted)
		assert.Equal(t, 2, resolver.calls)
		require.NotNil(t, res.Device)
		assert.NotEqual(t, stale.ID, res.Device.ID, "a new device replaces the deleted one")
		assert.Equal(t, info.Fingerprint(), res.Device.Fingerprint)
		require.NotNil(t, res.IPLog)
		assert.Equal(t, res.Device.ID, *res.IPLog.DeviceID)
	})

	t.Run("retries once without an evicter", func(t *testing.T) {
		t.Parallel()
		resolver := newResolver()
		svc := tracker.NewService(resolver, recorder, logger.Nop())

		res, err := svc.OnRequest(ctx, h, "203.0.113.7:1000")
		require.ErrorIs(t, err, tracker.ErrTrackingFailed)
		require.ErrorIs(t, err, iplog.ErrUnknownDevice)
		assert.Equal(t, 2, resolver.calls)
		assert.Empty(t, resolver.evicted)
		assert.Nil(t, res.IPLog)
	})
}
