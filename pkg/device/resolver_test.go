package device_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

func strPtr(s string) *string { return &s }

func iPhoneInfo() useragent.Info {
	return useragent.Classify(
		strPtr("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"),
		useragent.ClientHints{},
	)
}

func newResolver(store device.Store) *device.Resolver {
	return device.NewResolver(store, device.WithLogger(logger.Nop()))
}

func TestResolver_ResolveOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates device on first sighting", func(t *testing.T) {
		t.Parallel()
		store := device.NewMemoryStore()
		now := time.UnixMilli(1_700_000_000_000)
		r := device.NewResolver(store, device.WithLogger(logger.Nop()), device.WithClock(func() time.Time { return now }))
		info := iPhoneInfo()

		d, err := r.ResolveOrCreate(context.Background(), info)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, d.ID)
		assert.Equal(t, info.Fingerprint(), d.Fingerprint)
		assert.Equal(t, useragent.TypeMobile, d.Type)
		assert.True(t, d.IsTouch)
		assert.Equal(t, now.UnixMilli(), d.CreatedAt)
		assert.Equal(t, now.UnixMilli(), d.UpdatedAt)
		assert.Equal(t, info, d.Info())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		store := device.NewMemoryStore()
		r := newResolver(store)

		first, err := r.ResolveOrCreate(context.Background(), iPhoneInfo())
		require.NoError(t, err)
		second, err := r.ResolveOrCreate(context.Background(), iPhoneInfo())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("existing device is not refreshed", func(t *testing.T) {
		t.Parallel()
		store := device.NewMemoryStore()
		info := iPhoneInfo()
		stored := device.New(info, time.UnixMilli(1000))
		stored.OS = "legacy"
		require.NoError(t, store.Create(context.Background(), stored))

		d, err := newResolver(store).ResolveOrCreate(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, d.ID)
		assert.Equal(t, "legacy", d.OS)
		assert.Equal(t, int64(1000), d.UpdatedAt)
	})

	t.Run("lost insert race returns the winner", func(t *testing.T) {
		t.Parallel()
		info := iPhoneInfo()
		winner := device.New(info, time.Now())
		store := &scriptedStore{
			get: []getResult{
				{err: device.ErrNotFound},
				{device: winner},
			},
			createErr: device.ErrDuplicateFingerprint,
		}

		d, err := newResolver(store).ResolveOrCreate(context.Background(), info)
		require.NoError(t, err)
		assert.Equal(t, winner.ID, d.ID)
		assert.Equal(t, 2, store.getCalls)
		assert.Equal(t, 1, store.createCalls)
	})

	t.Run("conflict without a stored row is fatal", func(t *testing.T) {
		t.Parallel()
		store := &scriptedStore{
			get: []getResult{
				{err: device.ErrNotFound},
				{err: device.ErrNotFound},
			},
			createErr: device.ErrDuplicateFingerprint,
		}

		d, err := newResolver(store).ResolveOrCreate(context.Background(), iPhoneInfo())
		require.ErrorIs(t, err, device.ErrFingerprintConflict)
		assert.Nil(t, d)
		assert.Equal(t, 2, store.getCalls, "re-query happens exactly once")
		assert.Equal(t, 1, store.createCalls, "insert is not retried")
	})

	t.Run("lookup failure is surfaced", func(t *testing.T) {
		t.Parallel()
		errDown := errors.New("connection refused")
		store := &scriptedStore{get: []getResult{{err: errDown}}}

		_, err := newResolver(store).ResolveOrCreate(context.Background(), iPhoneInfo())
		require.ErrorIs(t, err, device.ErrStorage)
		require.ErrorIs(t, err, errDown)
		assert.Zero(t, store.createCalls)
	})

	t.Run("insert failure is surfaced", func(t *testing.T) {
		t.Parallel()
		errDown := errors.New("connection reset")
		store := &scriptedStore{get: []getResult{{err: device.ErrNotFound}}, createErr: errDown}

		_, err := newResolver(store).ResolveOrCreate(context.Background(), iPhoneInfo())
		require.ErrorIs(t, err, device.ErrStorage)
		require.ErrorIs(t, err, errDown)
		assert.Equal(t, 1, store.getCalls)
	})

	t.Run("re-query failure is surfaced", func(t *testing.T) {
		t.Parallel()
		errDown := errors.New("timeout")
		store := &scriptedStore{
			get:       []getResult{{err: device.ErrNotFound}, {err: errDown}},
			createErr: device.ErrDuplicateFingerprint,
		}

		_, err := newResolver(store).ResolveOrCreate(context.Background(), iPhoneInfo())
		require.ErrorIs(t, err, device.ErrStorage)
		assert.NotErrorIs(t, err, device.ErrFingerprintConflict)
	})
}

func TestResolver_ConcurrentFirstSightings(t *testing.T) {
	t.Parallel()

	const n = 16
	store := newBarrierStore(n)
	r := newResolver(store)
	info := iPhoneInfo()

	ids := make([]uuid.UUID, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := r.ResolveOrCreate(context.Background(), info)
			errs[i] = err
			if d != nil {
				ids[i] = d.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, int32(n), store.creates.Load(), "every caller attempted the insert")
}

type getResult struct {
	device *device.Device
	err    error
}

// scriptedStore replays lookup results in order.
type scriptedStore struct {
	get         []getResult
	createErr   error
	getCalls    int
	createCalls int
}

func (s *scriptedStore) GetByFingerprint(context.Context, string) (*device.Device, error) {
	res := s.get[s.getCalls]
	s.getCalls++
	return res.device, res.err
}

func (s *scriptedStore) Create(context.Context, *device.Device) error {
	s.createCalls++
	return s.createErr
}

// barrierStore holds the first n lookups until all of them have missed, so
// every caller reaches Create before any insert lands.
type barrierStore struct {
	*device.MemoryStore
	n       int32
	calls   atomic.Int32
	creates atomic.Int32
	arrived sync.WaitGroup
}

func newBarrierStore(n int) *barrierStore {
	s := &barrierStore{MemoryStore: device.NewMemoryStore(), n: int32(n)}
	s.arrived.Add(n)
	return s
}

func (s *barrierStore) GetByFingerprint(ctx context.Context, fp string) (*device.Device, error) {
	if s.calls.Add(1) <= s.n {
		d, err := s.MemoryStore.GetByFingerprint(ctx, fp)
		s.arrived.Done()
		s.arrived.Wait()
		return d, err
	}
	return s.MemoryStore.GetByFingerprint(ctx, fp)
}

func (s *barrierStore) Create(ctx context.Context, d *device.Device) error {
	s.creates.Add(1)
	return s.MemoryStore.Create(ctx, d)
}
