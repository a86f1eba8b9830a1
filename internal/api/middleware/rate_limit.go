package middleware

import (
	"fmt"
	"net/http"
	"time"

	"powermatch/internal/config"
	"powermatch/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimiter applies a fixed-window limit per client IP and endpoint
type RateLimiter struct {
	manager *ratelimit.Manager
	cfg     ratelimit.Config
}

// NewRateLimiter creates a new rate limiter middleware from the app config
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		manager: ratelimit.NewManager(0),
		cfg: ratelimit.Config{
			MaxRequests: cfg.RateLimit.Requests,
			Window:      time.Duration(cfg.RateLimit.Window) * time.Second,
		},
	}
}

// NewRateLimiterWithConfig creates a rate limiter with explicit limit settings
func NewRateLimiterWithConfig(cfg ratelimit.Config) *RateLimiter {
	return &RateLimiter{
		manager: ratelimit.NewManager(0),
		cfg:     cfg,
	}
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for Swagger documentation
		if c.Request.URL.Path == "/swagger/index.html" ||
			c.Request.URL.Path == "/swagger/doc.json" ||
			c.Request.URL.Path == "/swagger/*any" {
			c.Next()
			return
		}

		clientID := c.ClientIP()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		decision := rl.manager.Check(clientID, endpoint, rl.cfg)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetTime.Unix()))

		if !decision.Allowed {
			retryAfter := decision.RetryAfterSeconds()
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": fmt.Sprintf("%ds", retryAfter),
			})
			c.Abort()
			return
		}

		c.Next()

		// Adjust the window once the outcome is known
		if rl.cfg.SkipSuccessful || rl.cfg.SkipFailed {
			success := c.Writer.Status() < http.StatusBadRequest
			rl.manager.UpdateResult(clientID, endpoint, rl.cfg, success)
		}
	}
}

// Close stops the underlying window manager
func (rl *RateLimiter) Close() {
	rl.manager.Close()
}
