package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
)

// CheckRateLimit increments the fixed-window counter for resource/id and reports
// whether the caller is still within limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit allows limit requests per window, keyed by user id when authenticated
// and by client IP otherwise. A limit of zero disables it. Store failures let the
// request through.
func RateLimit(rdb *redis.Client, resource string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || rdb == nil {
			c.Next()
			return
		}

		id := "ip:" + c.ClientIP()
		if uid, ok := c.Get(UserIDKey); ok {
			id = fmt.Sprintf("user:%v", uid)
		}

		ctx := c.Request.Context()
		allowed, err := CheckRateLimit(ctx, rdb, resource, id, limit, window)
		if err != nil {
			observability.Logger.WarnContext(ctx, "rate limit check failed", "resource", resource, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
