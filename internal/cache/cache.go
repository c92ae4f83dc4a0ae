// Package cache provides the key-value store backing the download result
// cache, with pluggable in-memory and Redis/Valkey providers.
package cache

// EvictCallback is called when an entry is evicted from the cache.
// Not all providers support eviction callbacks.
type EvictCallback func(key string, value []byte)

// Logger receives error reports from cache operations. Implementations must
// be safe for concurrent use.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a bounded key-value store with LRU semantics. Values are opaque
// byte slices; callers serialize their own payloads.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key. If the key already exists, it is overwritten.
	Set(key string, value []byte)

	// Contains checks whether a key exists without affecting LRU ordering.
	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	// For in-memory caches, this is a no-op.
	Close() error
}
