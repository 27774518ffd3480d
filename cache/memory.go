package cache

import (
	"sync"
	"time"
)

// entry holds a cached value with the time it was stored.
type entry struct {
	value    string
	storedAt time.Time
}

// InMemoryCache is a thread-safe in-memory session cache. Entries are
// scoped to the cache's lifetime; there is no eviction, so growth is
// bounded only by the session. An optional TTL is available for
// long-lived processes.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// NewInMemoryCache creates a new in-memory cache. ttlSeconds of 0 or
// less means entries never expire, which is the usual session-cache
// configuration.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

// Set stores a value in the cache. It never fails.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: time.Now()}
	return nil
}

// Len returns the number of entries in the cache, including expired ones
// that have not been touched since expiry.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Verify InMemoryCache implements SessionCache
var _ SessionCache = (*InMemoryCache)(nil)
