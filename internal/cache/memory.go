package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache bounds the in-process download result cache two ways: by entry
// count (the LRU's capacity) and by total payload bytes. Entry counts alone
// are a poor bound for this workload because base64-encoded media responses
// range from a few hundred kilobytes to tens of megabytes.
type memoryCache struct {
	inner    *lru.LRU[string, []byte]
	maxBytes int64
	bytes    atomic.Int64
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	c := &memoryCache{maxBytes: cfg.MaxBytes}

	// Every removal path (capacity eviction, TTL expiry, explicit removal)
	// runs through this callback, so byte accounting stays in one place.
	onEvict := func(key string, value []byte) {
		c.bytes.Add(-int64(len(value)))
		if cfg.OnEvict != nil {
			cfg.OnEvict(key, value)
		}
	}

	c.inner = lru.NewLRU[string, []byte](cfg.Size, onEvict, cfg.TTL)
	return c, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	return m.inner.Get(key)
}

// Set stores the value, then sheds least-recently-used entries until the byte
// budget holds again. A value larger than the entire budget is not cached at
// all: storing it would immediately evict everything else.
func (m *memoryCache) Set(key string, value []byte) {
	if m.maxBytes > 0 && int64(len(value)) > m.maxBytes {
		return
	}

	// Replacing an existing key does not trigger the eviction callback, so
	// the old payload's size has to be released here.
	if old, ok := m.inner.Peek(key); ok {
		m.bytes.Add(-int64(len(old)))
	}

	m.inner.Add(key, value)
	m.bytes.Add(int64(len(value)))

	for m.maxBytes > 0 && m.bytes.Load() > m.maxBytes {
		if _, _, ok := m.inner.RemoveOldest(); !ok {
			break
		}
	}
}

func (m *memoryCache) Contains(key string) bool {
	return m.inner.Contains(key)
}

func (m *memoryCache) Len() int {
	return m.inner.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
