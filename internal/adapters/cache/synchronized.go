package cache

import (
	"fmt"
	"sync"

	"go.trai.ch/regiontrack/internal/core/domain"
	"golang.org/x/sync/singleflight"
)

// Synchronized wraps a Bounded cache for concurrent use.
//
// Concurrent FindOrCreate calls for the same key share one supplier invocation. Suppliers run
// without the cache lock held, so misses for different keys are materialized in parallel.
type Synchronized[K comparable, V any] struct {
	mu     sync.Mutex
	inner  *Bounded[K, V]
	flight singleflight.Group
}

// NewSynchronized creates a concurrency-safe cache. The arguments are those of NewBounded.
func NewSynchronized[K comparable, V any](sizeOf SizeFunc[V], opts ...Option) (*Synchronized[K, V], error) {
	inner, err := NewBounded[K, V](sizeOf, opts...)
	if err != nil {
		return nil, err
	}
	return &Synchronized[K, V]{inner: inner}, nil
}

// Get returns the cached value for key and marks it as recently used.
func (s *Synchronized[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Get(key)
}

// Lookup is Get without the presence flag.
func (s *Synchronized[K, V]) Lookup(key K) V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Lookup(key)
}

// Contains reports whether key is cached without affecting its recency.
func (s *Synchronized[K, V]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Contains(key)
}

// FindOrCreate returns the cached value for key, calling supplier on a miss.
// At most one supplier call is in flight per key.
func (s *Synchronized[K, V]) FindOrCreate(key K, supplier Supplier[K, V]) (V, error) {
	if v, ok := s.cached(key); ok {
		return v, nil
	}

	result, err, _ := s.flight.Do(fmt.Sprintf("%#v", key), func() (any, error) {
		// A flight for key may have completed between the check above and this one.
		if v, ok := s.cached(key); ok {
			return v, nil
		}

		value, err := supplier(key)

		s.mu.Lock()
		defer s.mu.Unlock()
		return s.inner.FindOrCreate(key, func(K) (V, error) {
			return value, err
		})
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := result.(V)
	return v, nil
}

// Clear removes every entry.
func (s *Synchronized[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.Clear()
}

// SetMaximumSize changes the budget and evicts immediately if the cache no longer fits.
func (s *Synchronized[K, V]) SetMaximumSize(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.SetMaximumSize(n)
}

// MaximumSize returns the current budget.
func (s *Synchronized[K, V]) MaximumSize() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.MaximumSize()
}

// Len returns the number of cached entries.
func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Len()
}

// Size returns the total cost of the cached entries.
func (s *Synchronized[K, V]) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Size()
}

// Stats returns a snapshot of the cache counters.
func (s *Synchronized[K, V]) Stats() domain.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Stats()
}

// cached serves a hit through the inner cache so that recency and counters are updated.
func (s *Synchronized[K, V]) cached(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inner.Contains(key) {
		var zero V
		return zero, false
	}
	return s.inner.Get(key)
}
