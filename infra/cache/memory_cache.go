package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/accounts/pkg/domain/account"
)

const cleanupInterval = 5 * time.Minute

// MemoryCache implements cache.AccountCache using in-memory storage
type MemoryCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	acc       account.Account
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache. Close stops its cleanup
// goroutine.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		cache: make(map[string]*cacheEntry),
		stop:  make(chan struct{}),
	}
	go c.cleanup(cleanupInterval)
	return c
}

// Get retrieves an account from cache
func (c *MemoryCache) Get(_ context.Context, key string) (*account.Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	acc := entry.acc
	return &acc, nil
}

// Set stores a copy of acc with the given TTL
func (c *MemoryCache) Set(_ context.Context, key string, acc *account.Account, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = &cacheEntry{
		acc:       *acc,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes keys from cache
func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.cache, key)
	}
	return nil
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// cleanup removes expired entries from cache
func (c *MemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired(time.Now())
		}
	}
}

func (c *MemoryCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.cache {
		if now.After(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}
