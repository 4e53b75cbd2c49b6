package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrKeyNotCached is returned when no key can be found in memory, the
// backing store, or the environment.
var ErrKeyNotCached = errors.New("key not cached")

// Store is a persistent backing store for cached keys. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, service string) (string, error)
	Set(ctx context.Context, service, key string) error
	Delete(ctx context.Context, service string) error
}

// DefaultKeyTTL is how long a cached key stays fresh.
const DefaultKeyTTL = 1 * time.Hour

type cacheEntry struct {
	key      string
	cachedAt time.Time
}

// KeyCache layers an in-memory TTL map over an optional persistent
// Store, falling back to a per-service environment variable when both
// miss. All dependencies are injected; there is no package-level state.
type KeyCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	store   Store
	ttl     time.Duration
	now     func() time.Time
}

// NewKeyCache creates a KeyCache with the given TTL. store may be nil,
// in which case only memory and the environment are consulted. A
// non-positive ttl falls back to DefaultKeyTTL.
func NewKeyCache(store Store, ttl time.Duration) *KeyCache {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	return &KeyCache{
		entries: make(map[string]cacheEntry),
		store:   store,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached key for service, reading through to the store
// and finally the SERVICE_API_KEY environment variable.
func (c *KeyCache) Get(ctx context.Context, service string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[service]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.cachedAt) < c.ttl {
		return entry.key, nil
	}

	if c.store != nil {
		key, err := c.store.Get(ctx, service)
		if err == nil && key != "" {
			c.remember(service, key)
			return key, nil
		}
	}

	if key := os.Getenv(envVarFor(service)); key != "" {
		c.remember(service, key)
		return key, nil
	}

	return "", fmt.Errorf("%w: %s", ErrKeyNotCached, service)
}

// Set stores a key in memory and writes it through to the store.
func (c *KeyCache) Set(ctx context.Context, service, key string) error {
	c.remember(service, key)
	if c.store != nil {
		if err := c.store.Set(ctx, service, key); err != nil {
			return fmt.Errorf("failed to persist key: %w", err)
		}
	}
	return nil
}

// Invalidate drops the key for service from memory and the store.
func (c *KeyCache) Invalidate(ctx context.Context, service string) error {
	c.mu.Lock()
	delete(c.entries, service)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(ctx, service); err != nil {
			return fmt.Errorf("failed to delete persisted key: %w", err)
		}
	}
	return nil
}

func (c *KeyCache) remember(service, key string) {
	c.mu.Lock()
	c.entries[service] = cacheEntry{key: key, cachedAt: c.now()}
	c.mu.Unlock()
}

// envVarFor maps a service name to its fallback environment variable,
// e.g. "youtube" -> "YOUTUBE_API_KEY".
func envVarFor(service string) string {
	upper := strings.ToUpper(strings.ReplaceAll(service, "-", "_"))
	return upper + "_API_KEY"
}
