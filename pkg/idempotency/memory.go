package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with TTL. Suitable for tests and
// single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	rec       Record
	expiresAt time.Time
}

// NewMemoryStore creates a store. A nil clock uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memEntry), now: now}
}

func (s *MemoryStore) Lookup(_ context.Context, key, requestHash string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Record{}, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return Record{}, false, nil
	}
	if err := checkHash(key, entry.rec, requestHash); err != nil {
		return Record{}, true, err
	}
	return entry.rec, true, nil
}

// Save keeps the first unexpired record written for a key.
func (s *MemoryStore) Save(_ context.Context, key string, rec Record, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && s.now().Before(entry.expiresAt) {
		return nil
	}
	s.entries[key] = memEntry{rec: rec, expiresAt: s.now().Add(ttl)}
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
