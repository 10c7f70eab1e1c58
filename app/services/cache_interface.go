package services

import (
	"context"

	"github.com/address-shipping/app/models"
)

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// IResolutionCache cache kết quả parse địa chỉ. Key đã gồm phiên bản snapshot
// nên đổi dữ liệu hành chính thì key cũ tự hết hiệu lực.
type IResolutionCache interface {
	// Get lấy kết quả từ cache
	Get(ctx context.Context, key string) (*models.AddressResolution, bool, error)

	// Set lưu kết quả vào cache
	Set(ctx context.Context, key string, result *models.AddressResolution) error

	// Delete xóa một key
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	GetStats(ctx context.Context) (*CacheStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
