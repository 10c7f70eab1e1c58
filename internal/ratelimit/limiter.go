// Package ratelimit giới hạn số request gọi hãng vận chuyển theo từng caller
package ratelimit

import (
	"context"
)

// Limiter quyết định request với key có được đi tiếp không
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Unlimited Limiter luôn cho qua (rate limit bị tắt)
type Unlimited struct{}

func (Unlimited) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}
