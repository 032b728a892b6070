package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware bounds how many requests one subscriber may send to a
// route per window. This throttles abusive clients at the door; it is not the
// quota ledger, which meters successful publishes regardless of request rate.
// Counters live in Redis so every server instance enforces the same bound.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authenticated requests are keyed by subscriber; anything in
		// front of the auth middleware falls back to the client IP.
		caller := c.GetString("user_id")
		if caller == "" {
			caller = c.ClientIP()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", caller, c.FullPath())

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			c.Abort()
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Request rate limit exceeded, slow down"})
			c.Abort()
			return
		}

		c.Next()
	}
}
