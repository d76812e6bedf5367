package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "CHAT_RATE_PER_MINUTE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=suspension sslmode=disable", cfg.Database.DatabaseDSN())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/x")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CHAT_RATE_PER_MINUTE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Database.DatabaseDSN())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 20, cfg.RateLimit.ChatPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("production needs firebase credentials", func(t *testing.T) {
		cfg := &Config{
			Server:    ServerConfig{Port: "8080"},
			Database:  DatabaseConfig{Host: "db"},
			RateLimit: RateLimitConfig{ChatPerMinute: 10},
			App:       AppConfig{Environment: "production"},
		}
		assert.Error(t, cfg.Validate())

		cfg.Firebase.CredentialsPath = "/secrets/sa.json"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("database location required", func(t *testing.T) {
		cfg := &Config{
			Server:    ServerConfig{Port: "8080"},
			RateLimit: RateLimitConfig{ChatPerMinute: 10},
		}
		assert.Error(t, cfg.Validate())
	})
}
