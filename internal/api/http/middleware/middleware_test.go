package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/moto-tune/suspension-backend/internal/logging"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) {
		seen = logging.RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("echoes incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/x", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
		assert.Equal(t, "abc-123", seen)
	})

	t.Run("generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/x", nil))

		assert.Len(t, rr.Header().Get("X-Request-Id"), 32)
		assert.Equal(t, rr.Header().Get("X-Request-Id"), seen)
	})
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(1, 2)
	r := gin.New()
	r.Use(limiter.Middleware(func(c *gin.Context) string { return c.GetHeader("X-User-Id") }))
	r.POST("/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) int {
		req := httptest.NewRequest("POST", "/chat", nil)
		req.Header.Set("X-User-Id", user)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusOK, send("bob"), "buckets are per key")
}

func TestRequestIDMiddleware_RejectsOversizedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("a", maxRequestIDLen+1))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Len(t, rr.Header().Get(HeaderRequestID), 32)
}

func TestRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(60, 1)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("alice"))
	now = now.Add(10 * time.Minute)
	assert.True(t, limiter.Allow("bob"))
	assert.Equal(t, 2, limiter.Len())

	assert.Equal(t, 1, limiter.Sweep(5*time.Minute))
	assert.Equal(t, 1, limiter.Len())
	assert.False(t, limiter.Allow("bob"), "live buckets keep their state")

	now = now.Add(time.Hour)
	assert.Equal(t, 1, limiter.Sweep(5*time.Minute))
	assert.Zero(t, limiter.Len())
}
