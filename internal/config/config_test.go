package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dementia-care/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, config.BlacklistBackendPostgres, cfg.BlacklistBackend)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "JWT_SECRET=from-file\nJWT_ACCESS_TTL_MINUTES=5\nTOKEN_BLACKLIST_BACKEND=Redis\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv does not override variables that are already set.
	t.Setenv("PORT", "9999")
	for _, key := range []string{"JWT_SECRET", "JWT_ACCESS_TTL_MINUTES", "TOKEN_BLACKLIST_BACKEND", "CORS_ALLOWED_ORIGINS"} {
		key := key
		prev, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, prev)
			} else {
				os.Unsetenv(key)
			}
		})
	}

	cfg, err := config.Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, config.BlacklistBackendRedis, cfg.BlacklistBackend)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsUnknownBlacklistBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_BLACKLIST_BACKEND", "memcached")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
