package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/nvdbdq/pkg/logger"
)

// Memory is an in-process cache keyed by immutable request parameters.
// A TTL of zero keeps entries until the process exits; otherwise entries
// are dropped lazily on the first read after they expire. Failed loads are
// never stored. Concurrent loads of the same key may both hit upstream;
// the last writer wins, which is harmless because loads are idempotent.
// ⭐ SSOT: fetch memoization lives here, owned by whoever constructs it
type Memory[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	name    string
	logger  *logger.Logger
	now     func() time.Time

	hits   int64
	misses int64
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Stats is a point-in-time view of cache usage
type Stats struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
}

// NewMemory creates a new cache
func NewMemory[K comparable, V any](name string, ttl time.Duration, log *logger.Logger) *Memory[K, V] {
	return &Memory[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		name:    name,
		logger:  log,
		now:     time.Now,
	}
}

// Get retrieves a live entry
func (c *Memory[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.expired(e) {
		c.mu.Lock()
		// re-check: a concurrent Set may have refreshed it
		if cur, still := c.entries[key]; still && c.expired(cur) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		ok = false
	}

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key
func (c *Memory[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// GetOrLoad returns the cached value or calls load to populate it
func (c *Memory[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		c.logger.WithFields(map[string]interface{}{
			"cache": c.name,
			"key":   key,
		}).Debug("Cache hit")
		return v, nil
	}

	c.logger.WithFields(map[string]interface{}{
		"cache": c.name,
		"key":   key,
	}).Debug("Cache miss")

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}

// Purge drops every entry
func (c *Memory[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Stats returns usage counters
func (c *Memory[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Name:    c.name,
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

func (c *Memory[K, V]) expired(e entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl
}
