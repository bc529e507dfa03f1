package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/saasportal/internal/shared/logger"
	"github.com/orris-inc/saasportal/internal/shared/utils"
)

// Limiter records a request for key and reports whether it may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter throttles requests per client IP. A nil limiter disables it.
type RateLimiter struct {
	limiter Limiter
	logger  logger.Interface
}

func NewRateLimiter(limiter Limiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: logger}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		allowed, err := rl.limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			// fail open
			rl.logger.Warnw("rate limiter unavailable", "ip", ip, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
