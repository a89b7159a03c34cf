package store

import (
	"context"
	"sort"
	"sync"

	"github.com/roach88/onoff/internal/daykey"
)

// Compile-time contract assertion.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps records in process memory. The map is owned by the
// store instance; nothing is shared between instances.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

// Driver returns DriverMemory.
func (s *MemoryStore) Driver() Driver { return DriverMemory }

// Get returns a copy of the record at key.
func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[key]
	if !ok {
		return nil, nil
	}
	cp := rec.Clone()
	return &cp, nil
}

// Put upserts a copy of rec.
func (s *MemoryStore) Put(_ context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[key] = rec.Clone()
	return nil
}

// DeleteRange removes the range under a single write lock.
func (s *MemoryStore) DeleteRange(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.recs {
		if daykey.InRange(key, prefix) {
			delete(s.recs, key)
		}
	}
	return nil
}

// GetMany reads every key under one read lock, so the result is a
// consistent snapshot.
func (s *MemoryStore) GetMany(_ context.Context, keys []string) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, len(keys))
	for i, key := range keys {
		if rec, ok := s.recs[key]; ok {
			cp := rec.Clone()
			out[i] = &cp
		}
	}
	return out
}

// Keys returns all stored keys in ascending order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.recs))
	for key := range s.recs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
