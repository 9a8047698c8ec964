package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a generic thread-safe LRU cache with a soft limit.
// When the cache grows past the limit, least recently used entries are
// evicted until it is back to three quarters of the limit.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]V
	order     *List[K] // front is most recently used
	softLimit int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a new cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]V),
		order:     NewList[K](),
		softLimit: softLimit,
	}
}

// Get retrieves a value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return v, false
	}
	c.hits.Add(1)
	c.order.PushFront(key)
	return v, true
}

// Set stores a value, evicting old entries if the soft limit is exceeded.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
	c.order.PushFront(key)
	c.evict()
}

// GetOrCreate returns the cached value or creates and stores it.
// create is called under the lock so a key is never created twice.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		c.hits.Add(1)
		c.order.PushFront(key)
		return v
	}
	c.misses.Add(1)

	v := create()
	c.entries[key] = v
	c.order.PushFront(key)
	c.evict()
	return v
}

// Delete removes an entry. Returns true if it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.order.Remove(key)
	return true
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.Clear()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       n,
		Capacity:  c.softLimit,
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Evictions: c.evictions.Load(),
	}
}

// evict trims the cache to three quarters of the soft limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) evict() {
	if c.softLimit <= 0 || len(c.entries) <= c.softLimit {
		return
	}
	target := max(c.softLimit*3/4, 1)
	for len(c.entries) > target {
		key, ok := c.order.PopBack()
		if !ok {
			return
		}
		delete(c.entries, key)
		c.evictions.Add(1)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit.
	Capacity int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the cache hit rate 0.0 to 1.0.
	HitRate float64
	// Evictions is the number of evicted entries.
	Evictions uint64
}
