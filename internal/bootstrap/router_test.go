package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moto-tune/suspension-backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "8080", AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{ChatPerMinute: 10, Burst: 2},
		App:       config.AppConfig{Environment: "test", Version: "test"},
	}
}

func TestBuildRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(RouterDeps{ServiceName: "suspension-api", Config: testConfig(), Services: &Services{}})

	have := map[string]bool{}
	for _, rt := range r.Routes() {
		have[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /api/v1/auth/sync",
		"GET /api/v1/users/:uid",
		"POST /api/v1/motos",
		"GET /api/v1/kits/:id/balance",
		"GET /api/v1/explore/configs",
		"POST /api/v1/conversations/:id/messages",
		"POST /api/v1/social/follow/:uid",
		"GET /api/v1/social/trending",
		"POST /api/v1/messages/:uid",
		"GET /api/v1/inbox/stream",
		"POST /api/v1/suspension/balance",
		"POST /api/v1/suspension/adjustment",
	} {
		assert.True(t, have[want], want)
	}
}

func TestBuildRouter_HealthAndStatelessCalculators(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(RouterDeps{ServiceName: "suspension-api", Config: testConfig(), Services: &Services{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"disabled"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/suspension/balance", strings.NewReader(`{"settings":{"fork_compression":20}}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"compressionBalance":"FRONT_HEAVY"`)
}

func TestBuildRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(RouterDeps{ServiceName: "suspension-api", Config: testConfig(), Services: &Services{}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/motos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)
	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
	SetGinMode("development")
	assert.Equal(t, gin.DebugMode, gin.Mode())
}
