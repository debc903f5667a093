package limiter

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
	toolkit "github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	limiter *redis_rate.Limiter
}

func NewLimiter(client redis.UniversalClient) (*Limiter, error) {
	return &Limiter{redis_rate.NewLimiter(client)}, nil
}

func (l *Limiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	res, err := l.limiter.Allow(ctx, key, limit)
	if err != nil {
		return err
	}
	if res.Allowed == 0 {
		return toolkit.ErrRateLimited
	}
	return nil
}
