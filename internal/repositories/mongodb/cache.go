package mongodb

import (
	"context"
	"time"
)

// CacheService is the read-through cache surface the repositories need.
// pkg/cache.RedisCache satisfies it; tests pass nil and the repositories
// skip caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	carCacheTTL  = 10 * time.Minute
	userCacheTTL = 15 * time.Minute
)
