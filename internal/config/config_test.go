package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": "development"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, AuthBackendDatabase, cfg.AuthBackend)
	assert.NotEmpty(t, cfg.JWTSecret, "development gets a fallback secret")
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration())
	assert.Equal(t, 30, cfg.RateLimit.Capacity)
	assert.Contains(t, cfg.DSN(), "dbname=court_booking")
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":      "development",
		"DATABASE_URL": "postgres://u:p@db:5432/courts?sslmode=disable",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/courts?sslmode=disable", cfg.DSN())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": "production", "JWT_SECRET": ""})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsUnknownAuthBackend(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": "development", "AUTH_BACKEND": "ldap"})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_BACKEND")
}

func TestLoad_MockBackendIsCaseInsensitive(t *testing.T) {
	setEnv(t, map[string]string{"APP_ENV": "development", "AUTH_BACKEND": " Mock "})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AuthBackendMock, cfg.AuthBackend)
}

func TestValidate_ClampsRateLimit(t *testing.T) {
	cfg := Config{Env: "test", JWTSecret: "s", JWTExpireMin: 5, AuthBackend: "database"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.RefillTokens)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
}
