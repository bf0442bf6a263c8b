package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryCache is a size-bounded in-process cache. The LRU applies a single
// TTL to every entry, so the per-call ttl is only checked against it.
type memoryCache struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemoryCache(size int, ttl time.Duration) Cache {
	if size <= 0 {
		size = 128
	}
	return &memoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.lru.Add(key, cp)
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *memoryCache) Close() error {
	m.lru.Purge()
	return nil
}
