package source

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Cache stores encoded documents by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DefaultKeyPrefix namespaces cached documents.
const DefaultKeyPrefix = "lif:schema:"

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Cached serves documents from Cache, filling it from the wrapped Provider
// on a miss. Cache failures are logged and never fail the load.
type Cached struct {
	next  Provider
	cache Cache
	key   string
	ttl   time.Duration
	log   *zap.Logger
}

func NewCached(next Provider, cache Cache, key string, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, cache: cache, key: key, ttl: ttl, log: log}
}

func (c *Cached) Name() string { return "cached " + c.next.Name() }

func (c *Cached) Document(ctx context.Context) (map[string]any, error) {
	b, ok, err := c.cache.Get(ctx, c.key)
	switch {
	case err != nil:
		c.log.Warn("schema cache read failed", zap.String("key", c.key), zap.Error(err))
	case ok:
		doc, err := decodeCached(b)
		if err == nil {
			c.log.Debug("schema cache hit", zap.String("key", c.key))
			return doc, nil
		}
		c.log.Warn("schema cache entry unreadable", zap.String("key", c.key), zap.Error(err))
	}

	doc, err := c.next.Document(ctx)
	if err != nil {
		return nil, err
	}
	enc, err := msgpack.Marshal(doc)
	if err != nil {
		c.log.Warn("schema cache encode failed", zap.Error(err))
		return doc, nil
	}
	if err := c.cache.Set(ctx, c.key, enc, c.ttl); err != nil {
		c.log.Warn("schema cache write failed", zap.String("key", c.key), zap.Error(err))
	}
	return doc, nil
}

func decodeCached(b []byte) (map[string]any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
