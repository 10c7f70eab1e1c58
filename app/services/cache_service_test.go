package services

import (
	"context"
	"testing"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleResolution() *models.AddressResolution {
	province := &models.MatchCandidate{
		Node:       models.GeoNode{ID: "79", ExternalID: "202", Name: "Hồ Chí Minh", Tier: models.TierProvince},
		Confidence: 1,
	}
	district := &models.MatchCandidate{
		Node:       models.GeoNode{ID: "760", ExternalID: "1442", Name: "Quận 1", ParentID: "79", Tier: models.TierDistrict},
		Confidence: 1,
	}
	return &models.AddressResolution{
		Province:          province,
		District:          district,
		NormalizedAddress: "Quận 1, Hồ Chí Minh",
		IsValid:           true,
		Segments:          models.SegmentedAddress{District: "Quận 1", Province: "Hồ Chí Minh"},
		SnapshotVersion:   "v1",
	}
}

func newRedisCache(t *testing.T) (*RedisCacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheService(client, "test:", time.Minute, zap.NewNop()), mr
}

func TestMemoryCacheService(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheService(2, time.Minute)

	_, found, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "a", sampleResolution()))
	got, found, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Quận 1, Hồ Chí Minh", got.NormalizedAddress)

	// vượt kích thước thì phần tử ít dùng nhất bị loại
	require.NoError(t, cache.Set(ctx, "b", sampleResolution()))
	require.NoError(t, cache.Set(ctx, "c", sampleResolution()))
	_, found, _ = cache.Get(ctx, "a")
	assert.False(t, found)

	stats, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(2), stats.TotalMiss)
	assert.Equal(t, int64(2), stats.TotalItems)
	assert.InDelta(t, 1.0/3, stats.HitRate, 1e-9)

	require.NoError(t, cache.Delete(ctx, "a"))
	require.NoError(t, cache.Clear(ctx))
	stats, _ = cache.GetStats(ctx)
	assert.Equal(t, int64(0), stats.TotalItems)
}

func TestMemoryCacheService_TTL(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCacheService(10, 20*time.Millisecond)
	require.NoError(t, cache.Set(ctx, "a", sampleResolution()))

	assert.Eventually(t, func() bool {
		_, found, _ := cache.Get(ctx, "a")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestRedisCacheService(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)

	_, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	want := sampleResolution()
	require.NoError(t, cache.Set(ctx, "k", want))
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	got, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, mr.Set("other:k", "x"))
	require.NoError(t, cache.Set(ctx, "k2", want))
	stats, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalItems)
	assert.Equal(t, int64(1), stats.TotalHits)

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, mr.Exists("test:k"))
	assert.True(t, mr.Exists("other:k"))
}

func TestRedisCacheService_CorruptValue(t *testing.T) {
	cache, mr := newRedisCache(t)
	require.NoError(t, mr.Set("test:bad", "{not json"))

	_, _, err := cache.Get(context.Background(), "bad")
	assert.Error(t, err)
}

func TestHybridCacheService(t *testing.T) {
	ctx := context.Background()
	redisCache, mr := newRedisCache(t)
	memory := NewMemoryCacheService(10, time.Minute)
	hybrid := NewHybridCacheService(memory, redisCache, zap.NewNop())

	require.NoError(t, hybrid.Set(ctx, "k", sampleResolution()))
	assert.True(t, mr.Exists("test:k"))
	_, found, _ := memory.Get(ctx, "k")
	assert.True(t, found)

	// L1 mất dữ liệu (instance khác / restart): lấy từ L2 rồi nạp lại L1
	require.NoError(t, memory.Clear(ctx))
	got, found, err := hybrid.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v1", got.SnapshotVersion)
	_, found, _ = memory.Get(ctx, "k")
	assert.True(t, found)

	require.NoError(t, hybrid.Delete(ctx, "k"))
	_, found, err = hybrid.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHybridCacheService_RedisDown(t *testing.T) {
	ctx := context.Background()
	redisCache, mr := newRedisCache(t)
	hybrid := NewHybridCacheService(NewMemoryCacheService(10, time.Minute), redisCache, zap.NewNop())
	mr.Close()

	err := hybrid.Set(ctx, "k", sampleResolution())
	assert.Error(t, err)

	// L1 vẫn được ghi
	_, found, err := hybrid.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
}
