package cache

import (
	"sync"
	"time"
)

// entry stores a cached value with its write time and absolute expiration.
type entry[V any] struct {
	value     V
	createdAt time.Time
	expiresAt time.Time // zero means no expiration
}

// expired reports whether the entry is stale at ts. An entry is live only
// while ts is strictly before expiresAt.
func (e entry[V]) expired(ts time.Time) bool {
	return !e.expiresAt.IsZero() && !ts.Before(e.expiresAt)
}

// SimpleCache is a lightweight map-backed cache with optional concurrency safety.
// It supports per-item TTL. Expired entries are dropped lazily by Get and in
// bulk by PurgeExpired, which a Janitor can call on an interval.
type SimpleCache[K comparable, V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex
	now   func() time.Time

	items map[K]entry[V]
}

// Options controls construction of a SimpleCache.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// If false, the cache is not safe for concurrent use and may be faster in single-threaded contexts.
	ConcurrencySafe bool

	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

// NewSimpleCache constructs a new SimpleCache with the given options.
func NewSimpleCache[K comparable, V any](opts Options) *SimpleCache[K, V] {
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SimpleCache[K, V]{
		muPtr: mu,
		now:   clock,
		items: make(map[K]entry[V]),
	}
}

func (c *SimpleCache[K, V]) lockR() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.RLock()
	return c.muPtr.RUnlock
}

func (c *SimpleCache[K, V]) lockW() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// Get implements Cache.Get.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	var zero V

	unlock := c.lockR()
	e, ok := c.items[key]
	unlock()
	if !ok {
		return zero, false
	}
	if !e.expired(c.now()) {
		return e.value, true
	}

	// stale: evict, unless a fresh Set replaced it meanwhile
	unlock = c.lockW()
	defer unlock()
	if cur, ok := c.items[key]; ok && cur.expired(c.now()) {
		delete(c.items, key)
	}
	return zero, false
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	unlock := c.lockW()
	defer unlock()

	ts := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = ts.Add(ttl)
	}
	c.items[key] = entry[V]{
		value:     value,
		createdAt: ts,
		expiresAt: exp,
	}
}

// Delete implements Cache.Delete.
func (c *SimpleCache[K, V]) Delete(key K) {
	unlock := c.lockW()
	defer unlock()
	delete(c.items, key)
}

// Has implements Cache.Has.
func (c *SimpleCache[K, V]) Has(key K) bool {
	unlock := c.lockR()
	defer unlock()
	e, ok := c.items[key]
	if !ok {
		return false
	}
	return !e.expired(c.now())
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	ts := c.now()
	count := 0
	for _, e := range c.items {
		if !e.expired(ts) {
			count++
		}
	}
	return count
}

// Clear implements Cache.Clear.
func (c *SimpleCache[K, V]) Clear() {
	unlock := c.lockW()
	defer unlock()
	c.items = make(map[K]entry[V])
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *SimpleCache[K, V]) PurgeExpired() int {
	unlock := c.lockW()
	defer unlock()
	if len(c.items) == 0 {
		return 0
	}
	ts := c.now()
	removed := 0
	for k, e := range c.items {
		if e.expired(ts) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// size counts raw entries, stale ones included.
func (c *SimpleCache[K, V]) size() int {
	unlock := c.lockR()
	defer unlock()
	return len(c.items)
}

// Ensure SimpleCache implements Cache at compile time.
var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
