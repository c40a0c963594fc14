// Package cache holds agent responses keyed by request content so repeated
// identical queries short-circuit the provider call. Unbounded, in-memory,
// process lifetime; best-effort and never required for correctness.
package cache

import (
	"sync"

	"github.com/datalens-ai/datalens/internal/result"
)

type Cache struct {
	mu      sync.RWMutex
	entries map[string]*result.Result
}

func New() *Cache {
	return &Cache{entries: make(map[string]*result.Result)}
}

// Key derives the cache key from a frame fingerprint and the query string.
func Key(fingerprint, query string) string {
	return fingerprint + "\x00" + query
}

// Get returns the cached result for the key, if any.
func (c *Cache) Get(key string) (*result.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

// Put stores a result under the key, replacing any prior entry.
func (c *Cache) Put(key string, r *result.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
}

// Len returns the number of cached responses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
