package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Load()
	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.GeminiAPIKey = "test-key"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "./planclan.db", cfg.DatabasePath)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.SuggestTimeout)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SUGGEST_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.SuggestTimeout)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("requires JWT secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("rejects short JWT secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = "too-short"
		assert.ErrorContains(t, cfg.Validate(), "32 characters")
	})

	t.Run("requires Gemini API key", func(t *testing.T) {
		cfg := validConfig()
		cfg.GeminiAPIKey = ""
		assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")
	})

	t.Run("rejects bad port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = "notaport"
		assert.ErrorContains(t, cfg.Validate(), "PORT")
	})

	t.Run("rejects unknown database type", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseType = "mongo"
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_TYPE")
	})

	t.Run("postgres requires host and db", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabaseType = "postgres"
		cfg.PostgresHost = ""
		assert.ErrorContains(t, cfg.Validate(), "POSTGRES_HOST")
	})

	t.Run("rejects non-positive suggest timeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.SuggestTimeout = 0
		assert.ErrorContains(t, cfg.Validate(), "SUGGEST_TIMEOUT")
	})

	t.Run("rejects invalid rate limit window", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimitWindow = "soon"
		assert.ErrorContains(t, cfg.Validate(), "RATE_LIMIT_WINDOW")
	})
}
