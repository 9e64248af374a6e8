package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gorent/internal/utils"
	"gorent/pkg/cache"
)

// RateLimit throttles clients per IP using a fixed redis window. When redis
// is down requests pass through; availability beats throttling here.
func RateLimit(redis *cache.RedisCache, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redis == nil {
			c.Next()
			return
		}

		key := utils.CacheRateLimitPrefix + c.ClientIP()

		count, err := redis.Increment(c.Request.Context(), key)
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			redis.SetExpire(c.Request.Context(), key, window)
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(limit) {
			if ttl, err := redis.GetTTL(c.Request.Context(), key); err == nil {
				c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			}
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
