// internal/lyrics/cache.go
package lyrics

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache stores fetched lyrics for a bounded window to cut repeat calls to
// the external provider. Failures are never fatal; a broken cache just
// means a live fetch.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, text string)
}

// CacheKey normalizes an (artist, song) pair into a cache key.
func CacheKey(artist, song string) string {
	return strings.ToLower(strings.TrimSpace(artist)) + "|" + strings.ToLower(strings.TrimSpace(song))
}

const (
	DefaultCacheTTL     = 10 * time.Minute
	DefaultCacheEntries = 256
)

type memoryEntry struct {
	text    string
	expires time.Time
}

// MemoryCache is a TTL cache bounded to a fixed entry count with
// oldest-first eviction.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]memoryEntry
	order   []string

	now func() time.Time
}

// NewMemoryCache returns a cache holding up to max entries for ttl each.
// Non-positive arguments fall back to the defaults.
func NewMemoryCache(ttl time.Duration, max int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if max <= 0 {
		max = DefaultCacheEntries
	}
	return &MemoryCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return "", false
	}
	return e.text, true
}

func (c *MemoryCache) Set(_ context.Context, key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{text: text, expires: c.now().Add(c.ttl)}

	for len(c.entries) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len reports the live entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCache backs the lyrics cache with a shared Redis instance, for
// deployments where several processes should pool their lookups. TTL
// enforcement and size bounding are delegated to Redis itself.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewRedisCache connects to Redis at addr and verifies it with a ping.
func NewRedisCache(addr string, db int, ttl time.Duration, log *logrus.Logger) (*RedisCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logrus.New()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	text, err := c.rdb.Get(ctx, "lyrics:"+key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("redis lyrics cache read failed")
		}
		return "", false
	}
	return text, true
}

func (c *RedisCache) Set(ctx context.Context, key, text string) {
	if err := c.rdb.Set(ctx, "lyrics:"+key, text, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("redis lyrics cache write failed")
	}
}
