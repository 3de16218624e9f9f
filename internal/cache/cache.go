// Package cache implements the extraction-result cache: a bounded, TTL-boxed
// key/value store consulted before and populated after each extractor call.
// Eviction is by insertion order (oldest entry first), not LRU, and expiry is
// lazy on read. It is a best-effort accelerator, not a durable store.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the cache when no explicit size is configured.
const DefaultMaxEntries = 256

type entry struct {
	key       string
	payload   any
	createdAt time.Time
	ttl       time.Duration
	elem      *list.Element
}

// Cache is a bounded TTL cache with FIFO eviction. The clock is injected so
// expiry is deterministic in tests.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	now        func() time.Time
	entries    map[string]*entry
	order      *list.List // insertion order, front = oldest

	hits      uint64
	misses    uint64
	evictions uint64
}

// Stats is a snapshot of the cache counters. Counters are observability
// only; they play no part in correctness.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the time source, for deterministic expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache bounded to maxEntries.
func New(maxEntries int, opts ...Option) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &Cache{
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]*entry),
		order:      list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload for key, or nil/false when the key is absent or
// its entry has outlived its TTL. Expired entries are removed on read.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(e.createdAt) >= e.ttl {
		c.removeLocked(e)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.payload, true
}

// Set stores payload under key with the given TTL. When the cache is full
// the single oldest-inserted entry is evicted to make room. Overwriting an
// existing key keeps its original insertion position.
func (c *Cache) Set(key string, payload any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.payload = payload
		e.createdAt = c.now()
		e.ttl = ttl
		return
	}
	if len(c.entries) >= c.maxEntries {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest.Value.(*entry))
			c.evictions++
		}
	}
	e := &entry{key: key, payload: payload, createdAt: c.now(), ttl: ttl}
	e.elem = c.order.PushBack(e)
	c.entries[key] = e
}

// Len returns the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the hit/miss/eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
}
