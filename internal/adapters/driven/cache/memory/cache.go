// Package memory provides an in-process TTL cache for aggregated results.
package memory

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

type entry struct {
	value    domain.RankedResultSet
	storedAt time.Time
}

// DefaultCapacity bounds the number of distinct keys held at once.
const DefaultCapacity = 1000

// Cache is a TTL cache keyed by query and connected source set.
// Expired entries are ignored on read and replaced on the next write.
// Past capacity the least recently used key is dropped.
type Cache struct {
	mu       sync.RWMutex // guards ttl
	entries  *lru.Cache[string, entry]
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used for entry age. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithCapacity sets the maximum number of keys. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewCache creates a cache with the given TTL.
// A non-positive TTL uses domain.DefaultCacheTTL.
func NewCache(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	c := &Cache{
		capacity: DefaultCapacity,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	entries, err := lru.New[string, entry](c.capacity)
	if err != nil {
		// capacity is always positive here
		panic(err)
	}
	c.entries = entries
	return c
}

// Get returns the value for key when its age is below the TTL.
func (c *Cache) Get(key string) (domain.RankedResultSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries.Get(key)
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return domain.RankedResultSet{}, false
	}
	return e.value, true
}

// Set stores value under key, stamped with the current time.
func (c *Cache) Set(key string, value domain.RankedResultSet) {
	c.entries.Add(key, entry{value: value, storedAt: c.now()})
}

// SetTTL changes the TTL for subsequent reads.
func (c *Cache) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	return c.entries.Len()
}
