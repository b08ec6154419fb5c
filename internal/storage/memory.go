package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	revision int64
	expires  time.Time
}

// MemoryStore is an in-memory Store implementation for tests and
// single-process development runs.
type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	now func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:   make(map[string]memoryEntry),
		now: time.Now,
	}
}

// Get returns the live entry for key.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.m[key]
	if !ok || !s.now().Before(e.expires) {
		return Entry{}, false, nil
	}
	return Entry{Value: e.value, Revision: e.revision}, true, nil
}

// Set upserts the entry, bumping its revision.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rev := int64(1)
	if prev, ok := s.m[key]; ok {
		rev = prev.revision + 1
	}
	s.m[key] = memoryEntry{value: value, revision: rev, expires: s.expiry(ttl)}
	return nil
}

// CompareAndSet upserts the entry only when the stored revision matches expect.
func (s *MemoryStore) CompareAndSet(_ context.Context, key, value string, ttl time.Duration, expect int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.m[key]
	if ok && !s.now().Before(prev.expires) {
		ok = false
	}
	if !ok {
		if expect != 0 {
			return ErrRevisionConflict
		}
		s.m[key] = memoryEntry{value: value, revision: 1, expires: s.expiry(ttl)}
		return nil
	}
	if prev.revision != expect {
		return ErrRevisionConflict
	}
	s.m[key] = memoryEntry{value: value, revision: prev.revision + 1, expires: s.expiry(ttl)}
	return nil
}

// Delete removes the entry for key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.now().Add(ttl)
}
