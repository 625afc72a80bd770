package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("enrich: cache miss")

// Cache stores enrichment results keyed by opportunity+profile. The shared
// Redis implementation is preferred so replicas reuse each other's calls;
// the in-process map is the single-node fallback.
type Cache interface {
	Get(ctx context.Context, key string) (Result, error)
	Set(ctx context.Context, key string, result Result, ttl time.Duration) error
}

type memoryEntry struct {
	result    Result
	expiresAt time.Time
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Result, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return Result{}, ErrCacheMiss
	}
	return entry.result, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, result Result, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{result: result, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// RedisCache stores results as JSON documents with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "enrich:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) (Result, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return Result{}, ErrCacheMiss
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read enrichment cache: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// A corrupt entry is indistinguishable from a miss to callers.
		return Result{}, ErrCacheMiss
	}
	return result, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result Result, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write enrichment cache: %w", err)
	}
	return nil
}
