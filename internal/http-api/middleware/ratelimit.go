package middleware

import (
	"log/slog"
	"net/http"

	"reviewhub/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit throttles by client IP. Limiter failures (redis down) fail open:
// auth endpoints staying reachable matters more than strict throttling.
func RateLimit(limiter ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", slog.String("error", err.Error()))
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
