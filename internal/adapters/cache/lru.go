package cache

import (
	"container/list"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCapacity is the number of entries a cache holds when none is given.
const DefaultCapacity = 128

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodist",
			Name:      "cache_hits_total",
			Help:      "The total number of in-memory cache hits",
		},
		[]string{"cache"},
	)
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodist",
			Name:      "cache_misses_total",
			Help:      "The total number of in-memory cache misses",
		},
		[]string{"cache"},
	)
	cacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodist",
			Name:      "cache_evictions_total",
			Help:      "The total number of entries evicted to stay within capacity",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, cacheEvictions)
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-capacity map that evicts the least recently used entry.
//
// A single mutex guards both the index and the recency list; every Get
// reorders the list so reads take the exclusive lock too.
type LRU[K comparable, V any] struct {
	name     string
	capacity int

	mu    sync.Mutex
	order *list.List
	items map[K]*list.Element
}

func NewLRU[K comparable, V any](name string, capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &LRU[K, V]{
		name:     name,
		capacity: capacity,
		order:    list.New(),
		items:    make(map[K]*list.Element, capacity),
	}
}

// Get returns the value stored under key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	el, ok := c.items[key]
	if ok {
		c.order.MoveToFront(el)
	}
	c.mu.Unlock()

	if !ok {
		cacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}

	cacheHits.WithLabelValues(c.name).Inc()
	return el.Value.(*lruEntry[K, V]).value, true
}

// Put inserts value under key and returns the value the cache now holds.
// An existing entry is kept (and refreshed) rather than overwritten, so
// concurrent writers of the same key converge on one value.
func (c *LRU[K, V]) Put(key K, value V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*lruEntry[K, V]).value
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry[K, V]).key)
			cacheEvictions.WithLabelValues(c.name).Inc()
		}
	}

	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	return value
}

// Len reports the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}
