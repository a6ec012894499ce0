package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/collabhub-backend/internal/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "STORE_BACKEND", "DATABASE_URL", "DB_HOST", "DB_NAME", "DB_USER",
		"DB_PASSWORD", "DB_PORT", "DB_SSLMODE", "REDIS_URL", "APP_TIMEZONE", "REVIEW_QUEUE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvPostgresFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "collabhub")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:secret@db:5432/collabhub?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "request_reviewed", cfg.ReviewQueue)
}

func TestFromEnvRedisBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Redis")
	_, err := config.FromEnv()
	assert.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_TIMEZONE", "Europe/Madrid")
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "collaborationRequests", cfg.RedisRequestsKey)
	assert.Equal(t, "Europe/Madrid", cfg.Location.String())
}

func TestFromEnvRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := config.FromEnv()
	assert.ErrorContains(t, err, "sqlite")
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=postgres://x@y/z\nHTTP_ADDR=:9999\n"), 0o600))
	// godotenv never overrides variables that are already set, even to ""
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("HTTP_ADDR")
	})

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://x@y/z", cfg.DatabaseURL)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://x@y/z")
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
