package cache

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered calculation results keyed by request fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

const keyPrefix = "roicalc:result:"

// RedisCache keeps entries in redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: rdb, ttl: ttl}
}

// Ping checks that the redis server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get reports a miss for absent keys and for redis failures; failures are logged.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, keyPrefix+key, value, r.ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// DefaultMaxEntries bounds a MemoryCache built by NewMemoryCache.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is a process-local Cache. A zero TTL keeps entries until they
// are evicted. Expired entries are swept at most once per TTL, and when the
// cache is full an arbitrary entry makes room for the new one.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	lastSweep  time.Time
	data       map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		data:       make(map[string]memoryEntry),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", false
	}
	if entry.expired(m.now()) {
		delete(m.data, key)
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.lastSweep.IsZero() {
		m.lastSweep = now
	}
	if m.ttl > 0 && now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}
	if _, exists := m.data[key]; !exists && m.maxEntries > 0 {
		for k := range m.data {
			if len(m.data) < m.maxEntries {
				break
			}
			delete(m.data, k)
		}
	}

	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MemoryCache) sweep(now time.Time) {
	for k, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, k)
		}
	}
	m.lastSweep = now
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
