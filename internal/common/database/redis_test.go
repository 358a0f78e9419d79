// internal/common/database/redis_test.go
package database

import (
	"context"
	"testing"
	"time"

	"lease-client/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisClient_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.Set(ctx, "lease:draft:house-1", `{"step":2}`, time.Minute))

	got, err := client.Get(ctx, "lease:draft:house-1")
	require.NoError(t, err)
	assert.Equal(t, `{"step":2}`, got)
	assert.Equal(t, time.Minute, mr.TTL("lease:draft:house-1"))

	require.NoError(t, client.Del(ctx, "lease:draft:house-1"))
	_, err = client.Get(ctx, "lease:draft:house-1")
	assert.True(t, IsNotFound(err))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisClient_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := WrapRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
