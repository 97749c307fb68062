package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL bounds how long a cached collection is served.
const DefaultCacheTTL = 5 * time.Minute

// ErrCacheMiss is returned by a CacheStore that holds no entry for a key.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the byte store behind CachedSource.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource serves windows out of cached full collections, filling the
// cache from the wrapped Collector on a miss. Cache failures fall through
// to the collector.
type CachedSource struct {
	next  Collector
	store CacheStore
	ttl   time.Duration
}

// NewCachedSource wraps next with store. A zero ttl uses DefaultCacheTTL.
func NewCachedSource(next Collector, store CacheStore, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{next: next, store: store, ttl: ttl}
}

func cacheKey(category string) string {
	return "beers:collection:" + category
}

// Collection returns the cached collection, fetching it on a miss.
func (c *CachedSource) Collection(ctx context.Context, category string) ([]json.RawMessage, error) {
	key := cacheKey(category)
	data, err := c.store.Get(ctx, key)
	if err == nil {
		if beers, err := decodeCollection(data); err == nil {
			slog.Debug("collection cache hit", "category", category, "count", len(beers))
			return beers, nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("collection cache get", "key", key, "error", err)
	}

	beers, err := c.next.Collection(ctx, category)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(beers); err != nil {
		slog.Warn("encode collection for cache", "category", category, "error", err)
	} else if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		slog.Warn("collection cache set", "key", key, "error", err)
	}
	return beers, nil
}

// Window slices the (possibly cached) collection.
func (c *CachedSource) Window(ctx context.Context, category string, w Window) ([]json.RawMessage, error) {
	return FromCollector(c).Window(ctx, category, w)
}

// RedisStore is a CacheStore backed by Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance at redisURL and pings it.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// Get reads key, mapping redis.Nil to ErrCacheMiss.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

// Set stores value under key for ttl.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
