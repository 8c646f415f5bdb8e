package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemoryCacheSize = 1024

// MemoryCache is an in-process LRU response cache. Entries share one TTL,
// fixed at construction; the ttl passed to Set is ignored.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates a cache holding up to size entries for ttl each
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.lru.Get(key)
	return value, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.lru.Add(key, value)
	return nil
}

// Len reports the number of live entries
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}
