package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/oksasatya/user-cache-api/internal/application"
)

const DefaultMemorySize = 10000

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is the in-process fallback used when Redis is not available.
// Entries honour their own TTL; the LRU bounds the number of keys.
type MemoryStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryStore{
		// ttl 0 disables LRU-wide expiry; each entry carries its own deadline.
		lru: expirable.NewLRU[string, memoryEntry](size, nil, 0),
		now: time.Now,
	}
}

func (s *MemoryStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	e, ok := s.lookup(key)
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{data: b}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.lru.Add(key, e)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.lru.Remove(k)
	}
	return nil
}

// Incr mirrors Redis INCR: a missing key counts from zero and the result never expires,
// while an existing key keeps its deadline.
func (s *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	e, ok := s.lookup(key)
	if ok {
		if err := json.Unmarshal(e.data, &n); err != nil {
			return 0, fmt.Errorf("incr %s: value is not an integer", key)
		}
	}
	n++
	b, _ := json.Marshal(n)
	e.data = b
	s.lru.Add(key, e)
	return n, nil
}

// lookup must be called with mu held. Expired entries are dropped on access.
func (s *MemoryStore) lookup(key string) (memoryEntry, bool) {
	e, ok := s.lru.Get(key)
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.lru.Remove(key)
		return memoryEntry{}, false
	}
	return e, true
}

var _ application.CacheStore = (*MemoryStore)(nil)
