package pricing

import (
	"sync"
	"time"

	"powermatch/internal/models"
)

// memoryCache is the in-process response cache keyed by serialized request
// parameters. Entries past their TTL are kept so they can be served as a
// last resort when the upstream is down; eviction is oldest-insertion-first
// once the entry cap is reached.
type memoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	maxEntries int
	ttl        time.Duration
}

type cacheEntry struct {
	plans      []models.Plan
	insertedAt time.Time
	expiresAt  time.Time
}

func newMemoryCache(ttl time.Duration, maxEntries int) *memoryCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	if maxEntries == 0 {
		maxEntries = 100
	}
	return &memoryCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached plans for a key and whether the entry is still fresh
func (c *memoryCache) Get(key string) ([]models.Plan, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return entry.plans, time.Now().Before(entry.expiresAt), true
}

// Set inserts or overwrites the entry for a key
func (c *memoryCache) Set(key string, plans []models.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = &cacheEntry{
		plans:      plans,
		insertedAt: now,
		expiresAt:  now.Add(c.ttl),
	}
}

// evictOldestLocked removes the entry with the oldest insertion time
func (c *memoryCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.insertedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of cached entries
func (c *memoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
