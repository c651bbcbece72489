// Package cache provides the memoization store shared by the data adapters.
// Adapter responses are cached by request URL so that re-analyzing the same
// coordinate does not re-issue network calls.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the injected memoization dependency. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte)
}

// Memory is an in-process cache with process lifetime.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Get returns the cached value for key, if present.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// Put stores value under key, overwriting any previous entry.
func (m *Memory) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Size returns the number of cached entries.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Redis backs the cache with a shared Redis instance, letting multiple
// analysis processes reuse each other's upstream responses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis instance at addr. Entries expire after ttl;
// a non-positive ttl keeps them indefinitely.
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get returns the cached value for key. Any Redis error is treated as a miss.
func (r *Redis) Get(key string) ([]byte, bool) {
	val, err := r.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Put stores value under key. Write failures are ignored; the cache is an
// optimization, not a source of truth.
func (r *Redis) Put(key string, value []byte) {
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	r.client.Set(context.Background(), key, value, ttl)
}

// Ping verifies the Redis connection at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
