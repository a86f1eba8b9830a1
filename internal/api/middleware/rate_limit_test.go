package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"powermatch/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(cfg ratelimit.Config, status int) *gin.Engine {
	router := gin.New()
	router.Use(NewRateLimiterWithConfig(cfg).Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(status)
	})
	return router
}

func doRequest(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		cfg           ratelimit.Config
		requests      int
		expectedCodes []int
		clientIP      string
	}{
		{
			name:          "Normal usage - under limit",
			cfg:           ratelimit.Config{MaxRequests: 10, Window: time.Minute},
			requests:      3,
			expectedCodes: []int{200, 200, 200},
			clientIP:      "192.168.1.1",
		},
		{
			name:          "At rate limit",
			cfg:           ratelimit.Config{MaxRequests: 2, Window: time.Minute},
			requests:      2,
			expectedCodes: []int{200, 200},
			clientIP:      "192.168.1.2",
		},
		{
			name:          "Exceeds rate limit",
			cfg:           ratelimit.Config{MaxRequests: 2, Window: time.Minute},
			requests:      3,
			expectedCodes: []int{200, 200, 429},
			clientIP:      "192.168.1.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRateLimitedRouter(tt.cfg, http.StatusOK)

			for i := 0; i < tt.requests; i++ {
				w := doRequest(router, tt.clientIP)
				assert.Equal(t, tt.expectedCodes[i], w.Code,
					"Request %d: expected status %d but got %d",
					i+1, tt.expectedCodes[i], w.Code)
			}
		})
	}
}

func TestRateLimiterSeparateIPs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRateLimitedRouter(ratelimit.Config{MaxRequests: 1, Window: time.Minute}, http.StatusOK)

	assert.Equal(t, 200, doRequest(router, "192.168.1.4").Code, "First IP request should succeed")
	assert.Equal(t, 200, doRequest(router, "192.168.1.5").Code, "Second IP request should succeed")
	assert.Equal(t, 429, doRequest(router, "192.168.1.4").Code, "Repeat from first IP should be limited")
}

func TestRateLimiterHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newRateLimitedRouter(ratelimit.Config{MaxRequests: 2, Window: time.Minute}, http.StatusOK)

	w := doRequest(router, "10.0.0.1")
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	doRequest(router, "10.0.0.1")
	w = doRequest(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	assert.NoError(t, err)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestRateLimiterSkipFailed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := ratelimit.Config{MaxRequests: 1, Window: time.Minute, SkipFailed: true}
	router := newRateLimitedRouter(cfg, http.StatusInternalServerError)

	// Failed responses should not consume the window
	for i := 0; i < 3; i++ {
		w := doRequest(router, "10.0.0.2")
		assert.Equal(t, http.StatusInternalServerError, w.Code, "Request %d should not be rate limited", i+1)
	}
}
