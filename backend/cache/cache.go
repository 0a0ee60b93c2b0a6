// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe generic cache with singleflight fills and background cleanup

package cache

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	data      V
	expiresAt time.Time
}

// Cache holds values of type V for a fixed TTL
type Cache[V any] struct {
	store   sync.Map
	ttl     time.Duration
	sfGroup singleflight.Group
	stop    chan struct{}
	once    sync.Once
}

// New creates a cache and starts its cleanup loop. Call Close to stop it.
func New[V any](ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go c.startCleanup(time.Minute)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[V])
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	e := entry[V]{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// GetOrCompute returns the cached value for key, or calls compute once for all
// concurrent callers and caches its result. The bool reports a cache hit.
// Errors are returned to every waiting caller and not cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := c.sfGroup.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

func (c *Cache[V]) Clear(key string) {
	c.store.Delete(key)
}

// ClearPrefix removes every key starting with prefix
func (c *Cache[V]) ClearPrefix(prefix string) {
	c.store.Range(func(key, _ interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.store.Delete(key)
		}
		return true
	})
}

// Len counts live entries
func (c *Cache[V]) Len() int {
	now := time.Now()
	n := 0
	c.store.Range(func(_, val interface{}) bool {
		if !now.After(val.(entry[V]).expiresAt) {
			n++
		}
		return true
	})
	return n
}

// Close stops the cleanup loop. The cache stays usable.
func (c *Cache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache[V]) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *Cache[V]) evictExpired() {
	now := time.Now()
	c.store.Range(func(key, val interface{}) bool {
		e := val.(entry[V])
		if now.After(e.expiresAt) {
			c.store.Delete(key)
		}
		return true
	})
}
