// Package lru implements an LRU cache eviction strategy.
package lru

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/lzwpack/internal/store/cachedstore/cachestrategy"
)

// Compile-time check that Strategy implements cachestrategy.Strategy.
var _ cachestrategy.Strategy = (*Strategy)(nil)

// Strategy evicts the least recently used artifact once capacity artifacts
// are cached.
type Strategy struct {
	mu    sync.Mutex // serializes Add so byte accounting sees replacements
	cache *lru.Cache[string, []byte]
	bytes atomic.Int64
}

// New creates a new LRU strategy holding at most capacity artifacts.
func New(capacity int) (*Strategy, error) {
	s := &Strategy{}
	c, err := lru.NewWithEvict(capacity, func(_ string, value []byte) {
		s.bytes.Add(-int64(len(value)))
	})
	if err != nil {
		return nil, err
	}
	s.cache = c
	return s, nil
}

// Get retrieves a value by key and marks it recently used.
func (s *Strategy) Get(key string) ([]byte, bool) {
	return s.cache.Get(key)
}

// Add adds a value to the cache, replacing any previous value for key.
func (s *Strategy) Add(key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.cache.Peek(key); ok {
		s.bytes.Add(-int64(len(old)))
	}
	s.bytes.Add(int64(len(value)))
	return s.cache.Add(key, value)
}

// Len returns the number of cached artifacts.
func (s *Strategy) Len() int {
	return s.cache.Len()
}

// Bytes returns the total size of the cached artifacts.
func (s *Strategy) Bytes() int64 {
	return s.bytes.Load()
}
