package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LIF-Initiative/lif-core/source"
)

type counting struct {
	calls int
	doc   map[string]any
}

func (c *counting) Name() string { return "counting" }

func (c *counting) Document(context.Context) (map[string]any, error) {
	c.calls++
	return c.doc, nil
}

func setupRedis(t *testing.T) (*source.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return source.NewRedisCache(client, ""), mr
}

func TestCached_MissThenHit(t *testing.T) {
	cache, mr := setupRedis(t)
	up := &counting{doc: map[string]any{
		"components": map[string]any{"schemas": map[string]any{
			"Person": map[string]any{"type": "object", "x-queryable": true, "maxItems": float64(3)},
		}},
	}}
	c := source.NewCached(up, cache, "17", time.Minute, nil)

	first, err := c.Document(context.Background())
	require.NoError(t, err)
	second, err := c.Document(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, up.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(source.DefaultKeyPrefix+"17"))
	assert.Equal(t, time.Minute, mr.TTL(source.DefaultKeyPrefix+"17"))
}

func TestCached_CorruptEntryRefetches(t *testing.T) {
	cache, mr := setupRedis(t)
	require.NoError(t, mr.Set(source.DefaultKeyPrefix+"17", "\xc1garbage"))
	up := &counting{doc: map[string]any{"openapi": "3.0.0"}}

	doc, err := source.NewCached(up, cache, "17", 0, nil).Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", doc["openapi"])
	assert.Equal(t, 1, up.calls)
}

func TestCached_RedisDown(t *testing.T) {
	cache, mr := setupRedis(t)
	mr.Close()
	up := &counting{doc: map[string]any{"openapi": "3.0.0"}}

	doc, err := source.NewCached(up, cache, "17", 0, nil).Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", doc["openapi"])
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, _ := setupRedis(t)
	_, ok, err := cache.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
