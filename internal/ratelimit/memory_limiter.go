package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const defaultMaxKeys = 10000

// MemoryLimiter token bucket theo key trong bộ nhớ process.
// Số key giữ lại bị chặn bởi LRU, key ít dùng bị loại trước.
type MemoryLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets *lru.Cache[string, *rate.Limiter]
	now     func() time.Time
}

// NewMemoryLimiter cho phép requests request mỗi window cho mỗi key
func NewMemoryLimiter(requests int, window time.Duration, maxKeys int) (*MemoryLimiter, error) {
	if requests <= 0 || window <= 0 {
		return nil, fmt.Errorf("rate limit không hợp lệ: %d/%s", requests, window)
	}
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}

	buckets, err := lru.New[string, *rate.Limiter](maxKeys)
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo LRU cho rate limit: %w", err)
	}

	return &MemoryLimiter{
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		buckets: buckets,
		now:     time.Now,
	}, nil
}

// SetClock thay nguồn thời gian (dùng trong test)
func (ml *MemoryLimiter) SetClock(now func() time.Time) {
	ml.now = now
}

func (ml *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ml.mu.Lock()
	bucket, ok := ml.buckets.Get(key)
	if !ok {
		bucket = rate.NewLimiter(ml.limit, ml.burst)
		ml.buckets.Add(key, bucket)
	}
	ml.mu.Unlock()

	return bucket.AllowN(ml.now(), 1), nil
}
