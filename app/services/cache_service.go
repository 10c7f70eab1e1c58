package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/address-shipping/app/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCacheService cache in-memory có giới hạn số phần tử và TTL
type MemoryCacheService struct {
	cache  *expirable.LRU[string, *models.AddressResolution]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCacheService tạo mới MemoryCacheService
func NewMemoryCacheService(size int, ttl time.Duration) *MemoryCacheService {
	if size <= 0 {
		size = 10000
	}
	return &MemoryCacheService{
		cache: expirable.NewLRU[string, *models.AddressResolution](size, nil, ttl),
	}
}

// Get lấy kết quả từ cache
func (ms *MemoryCacheService) Get(ctx context.Context, key string) (*models.AddressResolution, bool, error) {
	result, ok := ms.cache.Get(key)
	if !ok {
		ms.misses.Add(1)
		return nil, false, nil
	}
	ms.hits.Add(1)
	return result, true, nil
}

// Set lưu kết quả vào cache
func (ms *MemoryCacheService) Set(ctx context.Context, key string, result *models.AddressResolution) error {
	ms.cache.Add(key, result)
	return nil
}

func (ms *MemoryCacheService) Delete(ctx context.Context, key string) error {
	ms.cache.Remove(key)
	return nil
}

func (ms *MemoryCacheService) Clear(ctx context.Context) error {
	ms.cache.Purge()
	return nil
}

func (ms *MemoryCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := ms.hits.Load(), ms.misses.Load()
	return &CacheStats{
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(ms.cache.Len()),
	}, nil
}

func (ms *MemoryCacheService) Close() error {
	return nil
}
