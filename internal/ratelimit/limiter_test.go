package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l, err := NewMemoryLimiter(3, time.Minute, 10)
	require.NoError(t, err)
	l.SetClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ghn:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.Allow(ctx, "ghn:1.2.3.4")
	assert.False(t, ok)

	// key khác có bucket riêng
	ok, _ = l.Allow(ctx, "ghtk:1.2.3.4")
	assert.True(t, ok)

	// sau 20s nạp lại 1 token
	now = now.Add(20 * time.Second)
	ok, _ = l.Allow(ctx, "ghn:1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "ghn:1.2.3.4")
	assert.False(t, ok)
}

func TestMemoryLimiter_EvictsOldKeys(t *testing.T) {
	l, err := NewMemoryLimiter(1, time.Hour, 2)
	require.NoError(t, err)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)

	l.Allow(ctx, "b")
	l.Allow(ctx, "c")
	assert.Equal(t, 2, l.buckets.Len())

	// "a" đã bị loại khỏi LRU nên có bucket mới
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)
}

func TestNewLimiter_InvalidConfig(t *testing.T) {
	_, err := NewMemoryLimiter(0, time.Minute, 10)
	assert.Error(t, err)
	_, err = NewRedisLimiter(nil, 5, 0)
	assert.Error(t, err)
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)
	l, err := NewRedisLimiter(client, 2, time.Minute)
	require.NoError(t, err)
	l.SetClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "vtp:10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "vtp:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "vtp:10.0.0.2")
	assert.True(t, ok)

	keys := mr.Keys()
	require.NotEmpty(t, keys)
	assert.True(t, mr.TTL(keys[0]) > 0)

	// cửa sổ mới
	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "vtp:10.0.0.1")
	assert.True(t, ok)
}

func TestRedisLimiter_Error(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	l, err := NewRedisLimiter(client, 2, time.Minute)
	require.NoError(t, err)
	mr.Close()

	ok, err := l.Allow(context.Background(), "ghn:x")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestUnlimited(t *testing.T) {
	ok, err := Unlimited{}.Allow(context.Background(), "any")
	require.NoError(t, err)
	assert.True(t, ok)
}
