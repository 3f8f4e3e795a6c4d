package middleware

import (
	"math"
	"strconv"
	"time"

	"easypro-api/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Limiter decides whether a keyed request may proceed.
type Limiter interface {
	Allow(key string) ratelimit.Decision
}

// RateLimit keys requests by client IP. Every response carries the
// RateLimit-* headers; rejected ones also get Retry-After and are handed to
// reject, which must write the response.
func RateLimit(l Limiter, reject func(c *gin.Context, d ratelimit.Decision)) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := l.Allow(c.ClientIP())

		h := c.Writer.Header()
		h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(d.ResetIn)))

		if !d.Allowed {
			h.Set("Retry-After", strconv.Itoa(ceilSeconds(d.RetryAfter)))
			reject(c, d)
			c.Abort()
			return
		}
		c.Next()
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
