package repository

import (
	"context"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache keeps entries in process memory. A positive maxEntries bounds
// the number of keys; once full, the least recently used key is evicted to
// make room, so abandoned sessions age out instead of blocking new ones.
type MemoryCache struct {
	entries *lru.Cache[string, []byte]
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = math.MaxInt
	}
	// Only fails for a non-positive size.
	entries, _ := lru.New[string, []byte](maxEntries)
	return &MemoryCache{entries: entries}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	val, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries.Add(key, stored)
	return nil
}

func (m *MemoryCache) Has(_ context.Context, key string) bool {
	return m.entries.Contains(key)
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// Len reports the number of stored keys.
func (m *MemoryCache) Len() int {
	return m.entries.Len()
}
