package middleware

import (
	"net/http"

	"studymate/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests from a client IP over the limiter's quota.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP()) {
			Logger(c).Warn("rate_limited", "scope", scope, "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
