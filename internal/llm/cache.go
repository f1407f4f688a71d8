package llm

import (
	"strconv"
	"sync"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// cacheEntry represents a memoized classification outcome. fromService
// preserves whether the original computation was a real provider response
// or a heuristic fallback, so cache hits report the original outcome.
type cacheEntry struct {
	expiry      time.Time
	result      model.ClassificationResult
	fromService bool
}

// resultCache provides thread-safe memoization of classification results,
// keyed by transaction fingerprint. A TTL of zero disables eviction: entries
// then live for the lifetime of the process, which is acceptable only for
// small datasets.
type resultCache struct {
	entries  map[string]cacheEntry
	stopCh   chan struct{}
	ttl      time.Duration
	mu       sync.RWMutex
	stopOnce sync.Once
}

// newResultCache creates a cache with the specified TTL (0 = no eviction).
func newResultCache(ttl time.Duration) *resultCache {
	cache := &resultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	if ttl > 0 {
		go cache.cleanup()
	}

	return cache
}

// cacheKey builds the transaction fingerprint. The description is used
// verbatim: two differently formatted descriptions of the same logical
// transaction are cached independently.
func cacheKey(description string, amount float64) string {
	return description + "_" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// get retrieves a result from the cache if it exists and hasn't expired.
func (c *resultCache) get(key string) (model.ClassificationResult, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return model.ClassificationResult{}, false, false
	}

	if c.ttl > 0 && time.Now().After(entry.expiry) {
		return model.ClassificationResult{}, false, false
	}

	return entry.result, entry.fromService, true
}

// set stores a result in the cache. Last write wins on key collision; a
// collision implies identical description and amount, so an identical
// expected result.
func (c *resultCache) set(key string, result model.ClassificationResult, fromService bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result:      result,
		fromService: fromService,
		expiry:      time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *resultCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// clear removes all entries from the cache.
func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// size returns the number of entries in the cache.
func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *resultCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
