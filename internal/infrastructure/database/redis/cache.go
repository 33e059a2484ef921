package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache is the analysis-result cache contract. Values are JSON-serialized.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
}

type redisCache struct {
	client     *Client
	log        logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

// NewCache builds a Redis-backed cache. ttl is the default expiry applied
// when a call passes ttl <= 0.
func NewCache(client *Client, prefix string, ttl time.Duration, log logging.Logger) Cache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if prefix == "" {
		prefix = "protoscribe"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisCache{
		client:     client,
		log:        log.Named("cache"),
		prefix:     prefix + ":",
		defaultTTL: ttl,
	}
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "decode cached value")
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cache value")
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.rdb.Set(ctx, c.fullKey(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.fullKey(k))
	}
	if err := c.client.rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete")
	}
	return nil
}

// GetOrSet returns the cached value for key, or runs loader, caches its
// result and returns it. Concurrent callers for the same key share one
// loader invocation.
func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !errors.IsNotFound(err) {
		c.log.Warn("cache read failed, falling through to loader",
			logging.String("key", key), logging.Err(err))
	}

	data, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode loaded value")
		}
		if ttl <= 0 {
			ttl = c.defaultTTL
		}
		if err := c.client.rdb.Set(ctx, c.fullKey(key), encoded, ttl).Err(); err != nil {
			c.log.Warn("cache write failed", logging.String("key", key), logging.Err(err))
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(data.([]byte), dest)
}

// nopCache satisfies Cache when Redis is disabled: reads always miss and the
// loader always runs.
type nopCache struct{}

// NewNopCache returns a cache that stores nothing.
func NewNopCache() Cache { return nopCache{} }

func (nopCache) Get(context.Context, string, interface{}) error { return ErrCacheMiss }

func (nopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (nopCache) Delete(context.Context, ...string) error { return nil }

func (nopCache) GetOrSet(ctx context.Context, _ string, dest interface{}, _ time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode loaded value")
	}
	return json.Unmarshal(data, dest)
}
