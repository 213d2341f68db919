// Package cache provides a concurrency-safe in-memory TTL cache. Entries
// expire lazily on read; a periodic sweeper bounds memory for keys that are
// never read again.
package cache

import (
	"sync"
	"time"
)

// DefaultSweepInterval is how often the background sweeper runs.
const DefaultSweepInterval = time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a keyed store of values with absolute expiry. It is safe for use
// from many request handlers simultaneously.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	ttl     time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose entries default to the given TTL and starts the
// background sweeper. Call Destroy to stop the sweeper when the cache is no
// longer needed; the sweeper never prevents process shutdown.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return NewWithSweepInterval[K, V](ttl, DefaultSweepInterval)
}

// NewWithSweepInterval creates a cache with an explicit sweep interval.
func NewWithSweepInterval[K comparable, V any](ttl, sweepInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.sweeper(sweepInterval)
	return c
}

// Set stores a value under key with the cache's default TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL stores a value under key with an explicit TTL override.
func (c *Cache[K, V]) SetTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(ttl)}
}

// SetIfAbsent stores a value under key only if no live entry exists, and
// reports whether the value was stored. Expired entries count as absent.
// The check-then-insert is atomic, which makes it suitable for building a
// linearizable replay guard.
func (c *Cache[K, V]) SetIfAbsent(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		return false
	}
	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
	return true
}

// Get returns the live value for key. Expired entries are deleted lazily and
// reported as absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether a live entry exists for key.
func (c *Cache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes the entry for key, if any.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len sweeps expired entries and returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.Sweep()
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes all currently expired entries and returns how many were
// removed.
func (c *Cache[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

// Destroy stops the background sweeper. The cache remains usable afterwards;
// reads still expire entries lazily. Destroy is idempotent.
func (c *Cache[K, V]) Destroy() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// sweeper periodically evicts expired entries until Destroy is called. It is
// a liveness optimization only; correctness comes from lazy expiry.
func (c *Cache[K, V]) sweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}
