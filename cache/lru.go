// Package cache provides a bounded least-recently-used store for derived
// rendering resources such as decoded images and shaped glyph runs.
//
// The cache is owned by a single goroutine (the engine loop) and is not
// safe for concurrent use; callers that share a cache across goroutines
// must serialize access externally.
package cache

import "fmt"

// entry wraps a cached value with its recency-list links. The list is
// intrusive: head is most recently used, tail least recently used.
type entry[K comparable, V any] struct {
	key   K
	value V

	prev *entry[K, V]
	next *entry[K, V]
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of lookups served from the cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ProducerError wraps an error returned by a GetOrInsert producer.
// A failed producer leaves the cache completely unmodified.
type ProducerError struct {
	Err error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("cache: producer: %v", e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }

// LRU is a bounded key/value store with least-recently-used eviction.
// Capacity is fixed at construction; inserting beyond it evicts the least
// recently used entry first. Recency ties are broken by insertion order.
//
// The cache exclusively owns its values. Values returned from GetOrInsert
// are valid until the next eviction-triggering insert; callers must not
// hold them across one without re-fetching.
type LRU[K comparable, V any] struct {
	capacity int
	entries  map[K]*entry[K, V]

	head *entry[K, V]
	tail *entry[K, V]

	onEvict func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates an LRU with the given capacity. Capacities below 1 are
// clamped to 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		entries:  make(map[K]*entry[K, V], capacity),
	}
}

// OnEvict registers a notification hook invoked once for every entry that
// leaves the cache (capacity eviction, Delete or Clear). Backends use this
// to release GPU-side resources without the cache calling into backend
// code directly.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) { c.onEvict = fn }

// GetOrInsert returns the cached value for key, marking it most recently
// used. On a miss it invokes produce, inserts the result (evicting the
// least recently used entry if the cache is full) and returns it.
//
// A produce error is returned wrapped in *ProducerError and leaves the
// cache contents and size unchanged.
func (c *LRU[K, V]) GetOrInsert(key K, produce func() (V, error)) (V, error) {
	if e, ok := c.entries[key]; ok {
		c.hits++
		c.moveToFront(e)
		return e.value, nil
	}

	c.misses++
	value, err := produce()
	if err != nil {
		var zero V
		return zero, &ProducerError{Err: err}
	}

	for len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)
	return value, nil
}

// Get returns the cached value for key, marking it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		c.misses++
		return zero, false
	}
	c.hits++
	c.moveToFront(e)
	return e.value, true
}

// Contains reports whether key is cached without updating recency.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Delete removes an entry, firing the eviction hook for it.
// Returns true if the entry was present.
func (c *LRU[K, V]) Delete(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.unlink(e)
	delete(c.entries, key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
	return true
}

// Clear removes all entries, firing the eviction hook for each.
func (c *LRU[K, V]) Clear() {
	for e := c.tail; e != nil; e = c.tail {
		c.unlink(e)
		delete(c.entries, e.key)
		if c.onEvict != nil {
			c.onEvict(e.key, e.value)
		}
	}
}

// Len returns the number of cached entries. It never exceeds Capacity.
func (c *LRU[K, V]) Len() int { return len(c.entries) }

// Capacity returns the fixed capacity.
func (c *LRU[K, V]) Capacity() int { return c.capacity }

// Stats returns the current counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *LRU[K, V]) evictOldest() {
	e := c.tail
	if e == nil {
		return
	}
	c.unlink(e)
	delete(c.entries, e.key)
	c.evictions++
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}

func (c *LRU[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU[K, V]) moveToFront(e *entry[K, V]) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *LRU[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}
