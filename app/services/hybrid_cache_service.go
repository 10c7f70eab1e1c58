package services

import (
	"context"

	"github.com/address-shipping/app/models"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// HybridCacheService cache 2 tầng: memory (L1, theo instance) + Redis (L2, dùng chung)
type HybridCacheService struct {
	memoryCache *MemoryCacheService
	redisCache  *RedisCacheService
	logger      *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(memoryCache *MemoryCacheService, redisCache *RedisCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		memoryCache: memoryCache,
		redisCache:  redisCache,
		logger:      logger,
	}
}

// Get lấy kết quả từ L1, không có thì hỏi L2 và nạp lại L1
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.AddressResolution, bool, error) {
	if result, found, _ := hcs.memoryCache.Get(ctx, key); found {
		hcs.logger.Debug("L1 cache hit (memory)", zap.String("key", key))
		return result, true, nil
	}

	result, found, err := hcs.redisCache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	_ = hcs.memoryCache.Set(ctx, key, result)
	hcs.logger.Debug("L2 cache hit (Redis)", zap.String("key", key))
	return result, true, nil
}

// Set lưu vào cả 2 tầng, lỗi từng tầng được gom lại
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.AddressResolution) error {
	var errs *multierror.Error
	if err := hcs.memoryCache.Set(ctx, key, result); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := hcs.redisCache.Set(ctx, key, result); err != nil {
		hcs.logger.Warn("Lỗi lưu vào Redis", zap.Error(err))
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	var errs *multierror.Error
	errs = multierror.Append(errs, hcs.memoryCache.Delete(ctx, key), hcs.redisCache.Delete(ctx, key))
	return errs.ErrorOrNil()
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	var errs *multierror.Error
	errs = multierror.Append(errs, hcs.memoryCache.Clear(ctx), hcs.redisCache.Clear(ctx))
	return errs.ErrorOrNil()
}

// GetStats thống kê của L1 cộng số phần tử ở L2
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	l1, _ := hcs.memoryCache.GetStats(ctx)
	l2, err := hcs.redisCache.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	hits := l1.TotalHits + l2.TotalHits
	return &CacheStats{
		HitRate:    hitRate(hits, l2.TotalMiss),
		TotalHits:  hits,
		TotalMiss:  l2.TotalMiss,
		TotalItems: l2.TotalItems,
	}, nil
}

func (hcs *HybridCacheService) Close() error {
	return multierror.Append(nil, hcs.memoryCache.Close(), hcs.redisCache.Close()).ErrorOrNil()
}
