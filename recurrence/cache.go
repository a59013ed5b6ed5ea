package recurrence

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"
)

// cacheEntry is one cached range-query result.
type cacheEntry struct {
	result     any
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache memoizes Engine range queries. Entries expire after a TTL and the
// least recently accessed ones are evicted once the entry limit is crossed.
type Cache struct {
	entries         map[string]*cacheEntry
	mu              sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// CacheConfig holds configuration for the expansion cache.
type CacheConfig struct {
	TTL             time.Duration // how long entries stay valid
	MaxEntries      int           // maximum number of entries before eviction
	CleanupInterval time.Duration // how often expired entries are swept
}

// DefaultCacheConfig provides sensible defaults for the expansion cache.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// NewCache creates an expansion cache and starts its background sweep.
func NewCache(config CacheConfig) *Cache {
	c := &Cache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// key hashes everything a range query's answer depends on: the operation,
// the anchor, the recurrence-bearing properties and the queried window.
func (c *Cache) key(op string, start time.Time, info Info, rangeStart, rangeEnd time.Time) string {
	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte(start.Format(time.RFC3339Nano)))
	h.Write([]byte(rangeStart.Format(time.RFC3339Nano)))
	h.Write([]byte(rangeEnd.Format(time.RFC3339Nano)))
	for _, r := range info.RRules {
		h.Write([]byte(r))
	}
	for _, t := range info.RDates {
		h.Write([]byte(t.Format(time.RFC3339Nano)))
	}
	for _, t := range info.ExDates {
		h.Write([]byte(t.Format(time.RFC3339Nano)))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get retrieves a cached result if present and not expired.
func (c *Cache) Get(op string, start time.Time, info Info, rangeStart, rangeEnd time.Time) (any, bool) {
	key := c.key(op, start, info, rangeStart, rangeEnd)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	entry.accessedAt = now
	c.mu.Unlock()
	return entry.result, true
}

// Set stores a result.
func (c *Cache) Set(op string, start time.Time, info Info, rangeStart, rangeEnd time.Time, result any) {
	key := c.key(op, start, info, rangeStart, rangeEnd)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{
		result:     result,
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		c.evict()
	}
}

// evict removes expired entries, then the least recently accessed ones until
// the entry limit is respected. Callers hold the write lock.
func (c *Cache) evict() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type keyAccess struct {
		key        string
		accessedAt time.Time
	}
	byAge := make([]keyAccess, 0, len(c.entries))
	for key, entry := range c.entries {
		byAge = append(byAge, keyAccess{key: key, accessedAt: entry.accessedAt})
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].accessedAt.Before(byAge[j].accessedAt)
	})
	for i := 0; i < len(byAge) && len(c.entries) > c.maxEntries; i++ {
		delete(c.entries, byAge[i].key)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.evict()
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the background sweep and clears the cache.
func (c *Cache) Close() {
	close(c.stopCleanup)
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// CacheStats describes the cache's current contents.
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	now := time.Now()
	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expired++
		}
	}
	return CacheStats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}
