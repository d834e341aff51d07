// Package cache provides a size-bounded in-memory cache with approximate LRU eviction.
package cache

import (
	"slices"

	"go.trai.ch/regiontrack/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultCleanupFactor is the fraction of the maximum size eviction shrinks the cache to.
const DefaultCleanupFactor = 0.9

// SizeFunc returns the cost of a value in caller-defined units. Negative costs count as zero.
type SizeFunc[V any] func(V) int64

// Supplier materializes the value for a key on a cache miss.
type Supplier[K comparable, V any] func(K) (V, error)

type entry[V any] struct {
	value V
	cost  int64
}

// Bounded maps keys to shared values and keeps the total cost of its entries within a budget.
//
// When an insertion pushes the total cost above the maximum size, the least recently used
// entries are evicted until the total is at most maximum*cleanupFactor. A maximum size of
// zero disables caching: FindOrCreate calls the supplier every time and stores nothing.
//
// Bounded is not safe for concurrent use; see Synchronized.
type Bounded[K comparable, V any] struct {
	sizeOf        SizeFunc[V]
	maxSize       int64
	cleanupFactor float64

	entries map[K]entry[V]
	// recency holds the logical access time of every entry. It is updated by reads too.
	recency map[K]uint64
	clock   uint64
	total   int64

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewBounded creates a cache that measures values with sizeOf.
func NewBounded[K comparable, V any](sizeOf SizeFunc[V], opts ...Option) (*Bounded[K, V], error) {
	cfg := config{cleanupFactor: DefaultCleanupFactor}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Bounded[K, V]{
		sizeOf:        sizeOf,
		maxSize:       cfg.maxSize,
		cleanupFactor: cfg.cleanupFactor,
		entries:       make(map[K]entry[V]),
		recency:       make(map[K]uint64),
	}, nil
}

// Get returns the cached value for key and marks it as recently used.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.touch(key)
	return e.value, true
}

// Lookup is Get without the presence flag: a miss yields the zero value.
func (c *Bounded[K, V]) Lookup(key K) V {
	v, _ := c.Get(key)
	return v
}

// Contains reports whether key is cached without affecting its recency.
func (c *Bounded[K, V]) Contains(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// FindOrCreate returns the cached value for key, calling supplier to create it on a miss.
// The supplier is called at most once per call. If it fails, nothing is cached.
func (c *Bounded[K, V]) FindOrCreate(key K, supplier Supplier[K, V]) (V, error) {
	if c.maxSize == 0 {
		c.misses++
		return supplier(key)
	}

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.touch(key)
		return e.value, nil
	}

	c.misses++
	value, err := supplier(key)
	if err != nil {
		var zero V
		return zero, err
	}

	cost := max(c.sizeOf(value), 0)
	c.entries[key] = entry[V]{value: value, cost: cost}
	c.total += cost
	c.touch(key)
	c.cleanUp()

	return value, nil
}

// Clear removes every entry. Counters are kept.
func (c *Bounded[K, V]) Clear() {
	clear(c.entries)
	clear(c.recency)
	c.total = 0
}

// SetMaximumSize changes the budget and evicts immediately if the cache no longer fits.
// Negative sizes are treated as zero, which disables caching and empties the cache.
func (c *Bounded[K, V]) SetMaximumSize(n int64) {
	n = max(n, 0)
	if n == c.maxSize {
		return
	}
	c.maxSize = n
	c.cleanUp()
}

// MaximumSize returns the current budget.
func (c *Bounded[K, V]) MaximumSize() int64 {
	return c.maxSize
}

// Len returns the number of cached entries.
func (c *Bounded[K, V]) Len() int {
	return len(c.entries)
}

// Size returns the total cost of the cached entries.
func (c *Bounded[K, V]) Size() int64 {
	return c.total
}

// Stats returns a snapshot of the cache counters.
func (c *Bounded[K, V]) Stats() domain.CacheStats {
	return domain.CacheStats{
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Entries:     len(c.entries),
		Size:        c.total,
		MaximumSize: c.maxSize,
	}
}

func (c *Bounded[K, V]) touch(key K) {
	c.clock++
	c.recency[key] = c.clock
}

func (c *Bounded[K, V]) cleanUp() {
	if c.maxSize == 0 {
		c.evictions += uint64(len(c.entries))
		c.Clear()
		return
	}
	if c.total <= c.maxSize {
		return
	}

	threshold := int64(float64(c.maxSize) * c.cleanupFactor)

	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b K) int {
		ra, rb := c.recency[a], c.recency[b]
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		default:
			return 0
		}
	})

	for _, k := range keys {
		if c.total <= threshold {
			break
		}
		c.total -= c.entries[k].cost
		delete(c.entries, k)
		delete(c.recency, k)
		c.evictions++
	}
}

type config struct {
	maxSize       int64
	cleanupFactor float64
}

func (c config) validate() error {
	if c.maxSize < 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidCacheSize, "failed to create cache"), "maximum_size", c.maxSize)
	}
	if c.cleanupFactor <= 0 || c.cleanupFactor > 1 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidCleanupFactor, "failed to create cache"), "cleanup_factor", c.cleanupFactor)
	}
	return nil
}

// Option configures a cache.
type Option func(*config)

// WithMaximumSize sets the budget. The default of zero disables caching.
func WithMaximumSize(n int64) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithCleanupFactor sets the fraction of the budget that eviction shrinks the cache to.
// It must be in (0, 1].
func WithCleanupFactor(f float64) Option {
	return func(c *config) {
		c.cleanupFactor = f
	}
}
