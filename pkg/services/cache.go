package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/atlantix-inc/insight-engine/pkg/models"
)

// DefaultCacheEntries bounds the cache when no explicit size is configured.
const DefaultCacheEntries = 1024

type cacheEntry struct {
	key      string
	result   *models.PipelineResult
	storedAt time.Time
}

// ResultCache memoizes full pipeline results keyed by the normalized query
// text. Eviction is insertion-ordered (oldest first) and the entry count is
// bounded. Stored results always hold the unpaginated row set; pagination is
// applied per request on the way out.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      []string
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewResultCache creates a cache. maxEntries <= 0 falls back to the
// default bound, ttl <= 0 disables expiry, a nil clock defaults to time.Now.
func NewResultCache(maxEntries int, ttl time.Duration, now func() time.Time) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	if now == nil {
		now = time.Now
	}
	return &ResultCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        now,
	}
}

// CacheKey derives the cache key for a raw query. Keys are content hashes
// of the trimmed lowercased text, so trivially reworded whitespace or
// casing does not fragment the cache.
func CacheKey(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result for a query, if present and fresh.
func (c *ResultCache) Get(query string) (*models.PipelineResult, bool) {
	key := CacheKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		c.removeLocked(key)
		return nil, false
	}
	return entry.result, true
}

// Put stores a result under the query's key, evicting the oldest entry when
// the bound is reached. Failed results are not cached so transient errors
// do not stick.
func (c *ResultCache) Put(query string, result *models.PipelineResult) {
	if result == nil || !result.Success {
		return
	}
	key := CacheKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key].result = result
		c.entries[key].storedAt = c.now()
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		c.removeLocked(c.order[0])
	}

	c.entries[key] = &cacheEntry{key: key, result: result, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Len returns the current entry count.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
