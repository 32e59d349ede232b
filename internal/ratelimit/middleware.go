package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/auth"
	"github.com/SUMMERxKx/nwHacks/internal/response"
)

// Allower is satisfied by RedisLimiter.
type Allower interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Middleware limits per authenticated user, falling back to client IP. When
// the limiter errors the request goes through.
func Middleware(limiter Allower, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if v, ok := c.Get(auth.UserKey); ok {
			if user, ok := v.(*internal.User); ok {
				key = "user:" + user.ID
			}
		}

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warnf("[request_id=%s] rate limiter unavailable: %v", c.GetString("request_id"), err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.TooManyRequests("Too many requests"))
			return
		}
		c.Next()
	}
}
