package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/waste-orders/internal/config"
	"github.com/magabrotheeeer/waste-orders/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConnection{
		Address:     mr.Addr(),
		DialTimeout: time.Second,
		Timeout:     time.Second,
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	expected := models.Plan{ID: 2, Name: "Месячная подписка", Price: 2990, Duration: "1 месяц"}
	require.NoError(t, cache.Set(ctx, "plan:2", expected, time.Minute))

	var actual models.Plan
	found, err := cache.Get(ctx, "plan:2", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out models.Plan
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "plan:1", models.Plan{ID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var out models.Plan
	found, err := cache.Get(ctx, "plan:1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCorruptedValue(t *testing.T) {
	cache, mr := setupTestCache(t)
	require.NoError(t, mr.Set("plan:9", "not-json"))

	var out models.Plan
	found, err := cache.Get(context.Background(), "plan:9", &out)
	require.Error(t, err)
	assert.False(t, found)
}

func TestInitServerUnavailable(t *testing.T) {
	_, err := InitServer(context.Background(), config.RedisConnection{
		Address:     "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c Noop
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	found, err := c.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
}
