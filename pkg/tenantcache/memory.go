package tenantcache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultMaxEntries is the default capacity of the in-memory backend.
const DefaultMaxEntries = 10000

type memoryItem struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// memoryCache is the default in-memory backend with TTL expiration and a
// simple LRU bound. The key map doubles as the prefix index: DeletePrefix is
// a scan over it, which keeps per-tenant Clear exact without bookkeeping a
// second structure.
type memoryCache struct {
	mu         sync.Mutex
	items      map[string]memoryItem
	lru        []string
	maxEntries int
	stop       chan struct{}
	done       chan struct{}
	closed     bool
}

// NewInMemory creates an in-memory backend with automatic expiry cleanup.
func NewInMemory() Cache {
	return NewInMemoryWithSize(DefaultMaxEntries)
}

// NewInMemoryWithSize creates an in-memory backend with a custom entry bound.
func NewInMemoryWithSize(maxEntries int) Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	c := &memoryCache{
		items:      make(map[string]memoryItem),
		lru:        make([]string, 0, maxEntries),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go c.cleanup()

	return c
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCacheClosed
	}

	item, ok := c.items[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	if item.expired(time.Now()) {
		delete(c.items, key)
		c.removeLRU(key)
		return nil, ErrKeyNotFound
	}

	c.touchLRU(key)

	// Copy so callers cannot mutate the cached bytes.
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxEntries {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	item := memoryItem{value: stored}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	c.items[key] = item
	c.touchLRU(key)

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	delete(c.items, key)
	c.removeLRU(key)
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCacheClosed
	}

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			c.removeLRU(key)
		}
	}
	return nil
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// cleanup periodically removes expired items.
func (c *memoryCache) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
			c.removeLRU(key)
		}
	}
}

// touchLRU moves the key to the most-recently-used end.
func (c *memoryCache) touchLRU(key string) {
	c.removeLRU(key)
	c.lru = append(c.lru, key)
}

func (c *memoryCache) removeLRU(key string) {
	for i, k := range c.lru {
		if k == key {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}
