package report

import (
	"crypto/md5" // #nosec G501 - cache key, not a security boundary
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Cache is an in-memory read-through cache for query results, keyed by a
// hash of the normalized SQL. Expired entries are evicted lazily on the next
// lookup; there is no background sweeper.
type Cache struct {
	mu      sync.RWMutex
	enabled bool
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time // test seam
}

type cacheEntry struct {
	storedAt time.Time
	result   *ResultSet
}

// Stats describes the cache contents at a point in time.
type Stats struct {
	TotalEntries   int
	ValidEntries   int
	ExpiredEntries int
	Enabled        bool
	TTL            time.Duration
}

func NewCache(enabled bool, ttl time.Duration) *Cache {
	return &Cache{
		enabled: enabled,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Key hashes a query after collapsing whitespace and lowercasing, so
// formatting differences hit the same entry.
func Key(query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := md5.Sum([]byte(normalized)) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result for the query if present and fresh. An
// expired entry is removed on the way out.
func (c *Cache) Get(query string) (*ResultSet, bool) {
	if !c.enabled {
		return nil, false
	}
	key := Key(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

// Put stores a query result. No-op when the cache is disabled.
func (c *Cache) Put(query string, result *ResultSet) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(query)] = cacheEntry{storedAt: c.now(), result: result}
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Stats counts valid and expired entries without evicting anything.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		TotalEntries: len(c.entries),
		Enabled:      c.enabled,
		TTL:          c.ttl,
	}
	for _, entry := range c.entries {
		if c.now().Sub(entry.storedAt) < c.ttl {
			stats.ValidEntries++
		}
	}
	stats.ExpiredEntries = stats.TotalEntries - stats.ValidEntries
	return stats
}
