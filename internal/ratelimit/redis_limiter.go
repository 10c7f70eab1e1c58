package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter fixed window đếm bằng INCR trên Redis, dùng chung giữa nhiều instance
type RedisLimiter struct {
	client   *redis.Client
	requests int64
	window   time.Duration
	prefix   string
	now      func() time.Time
}

// NewRedisLimiter cho phép requests request mỗi window cho mỗi key
func NewRedisLimiter(client *redis.Client, requests int, window time.Duration) (*RedisLimiter, error) {
	if requests <= 0 || window <= 0 {
		return nil, fmt.Errorf("rate limit không hợp lệ: %d/%s", requests, window)
	}
	return &RedisLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		prefix:   "carrier_rl:",
		now:      time.Now,
	}, nil
}

// SetClock thay nguồn thời gian (dùng trong test)
func (rl *RedisLimiter) SetClock(now func() time.Time) {
	rl.now = now
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := rl.now().UnixNano() / int64(rl.window)
	redisKey := fmt.Sprintf("%s%s:%d", rl.prefix, key, slot)

	pipe := rl.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("lỗi đếm rate limit trên Redis: %w", err)
	}

	return count.Val() <= rl.requests, nil
}
