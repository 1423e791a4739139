package dashboard

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value   any
	expires time.Time
}

// ttlCache is a small expiring cache for summary text and filter
// option lists. Entries are recomputed lazily on the first access
// after expiry.
type ttlCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newTTLCache() *ttlCache {
	return &ttlCache{entries: map[string]cacheEntry{}, now: time.Now}
}

func (c *ttlCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) put(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(ttl)}
}
