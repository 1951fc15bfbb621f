package device

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-instance
// development. Fingerprint uniqueness is enforced under its mutex the same way
// a unique index enforces it in a database.
type MemoryStore struct {
	mu            sync.RWMutex
	byFingerprint map[string]Device
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byFingerprint: make(map[string]Device)}
}

func (s *MemoryStore) GetByFingerprint(ctx context.Context, fingerprint string) (*Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.byFingerprint[fingerprint]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *MemoryStore) Create(ctx context.Context, d *Device) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byFingerprint[d.Fingerprint]; exists {
		return ErrDuplicateFingerprint
	}
	s.byFingerprint[d.Fingerprint] = *d
	return nil
}

// Len returns the number of stored devices.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byFingerprint)
}
