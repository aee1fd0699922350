package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "HS256", cfg.JWT.SigningAlg)
	assert.Equal(t, []byte(devSigningKey), cfg.JWT.SigningKey)
	assert.Equal(t, "linkboard", cfg.JWT.Token.Issuer)
	assert.Equal(t, "linkboard-clients", cfg.JWT.Token.Audience)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Token.SessionTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.JWT.Token.RememberMeTTL)
	assert.Equal(t, 10, cfg.RateLimit.Login.UsernameThreshold)
	assert.Equal(t, 100, cfg.RateLimit.Login.IPThreshold)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.Login.Window)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.CleanupInterval)
	assert.Equal(t, JTIBackendMemory, cfg.JTIBackend)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LINKBOARD_ADDR", ":9090")
	t.Setenv("JWT_SIGNING_KEY", "0123456789abcdef0123")
	t.Setenv("SESSION_TOKEN_TTL", "1h")
	t.Setenv("LOGIN_USERNAME_THRESHOLD", "3")
	t.Setenv("LOGIN_WINDOW", "2m")
	t.Setenv("DATABASE_URL", "postgres://localhost/linkboard")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []byte("0123456789abcdef0123"), cfg.JWT.SigningKey)
	assert.Equal(t, time.Hour, cfg.JWT.Token.SessionTTL)
	assert.Equal(t, 3, cfg.RateLimit.Login.UsernameThreshold)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.Login.Window)
	assert.Equal(t, JTIBackendPostgres, cfg.JTIBackend, "database implies postgres registry")
	assert.Len(t, cfg.TrustedProxies, 2)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"bad duration":       {"LOGIN_WINDOW", "ten minutes"},
		"negative duration":  {"SESSION_TOKEN_TTL", "-1h"},
		"bad int":            {"LOGIN_IP_THRESHOLD", "many"},
		"zero threshold":     {"LOGIN_USERNAME_THRESHOLD", "0"},
		"unknown backend":    {"JTI_BACKEND", "etcd"},
		"redis without url":  {"JTI_BACKEND", "redis"},
		"pg without url":     {"JTI_BACKEND", "postgres"},
		"bad trusted proxy":  {"TRUSTED_PROXIES", "not-an-ip"},
		"missing key file":   {"JWT_SIGNING_KEY_FILE", "/nonexistent/key.pem"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestProductionRequiresSigningKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LINKBOARD_ENV", "production")

	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("JWT_SIGNING_KEY", "0123456789abcdef0123")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSigningKeyFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte("pem-bytes"), 0o600))
	t.Setenv("JWT_SIGNING_ALG", "EdDSA")
	t.Setenv("JWT_SIGNING_KEY_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "EdDSA", cfg.JWT.SigningAlg)
	assert.Equal(t, []byte("pem-bytes"), cfg.JWT.SigningKey)
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LINKBOARD_ADDR=:7070\nJTI_BACKEND=file\n"), 0o600))
	// godotenv never overrides a variable that is present, even when empty.
	require.NoError(t, os.Unsetenv("LINKBOARD_ADDR"))
	require.NoError(t, os.Unsetenv("JTI_BACKEND"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, JTIBackendFile, cfg.JTIBackend)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

var envKeys = []string{
	"LINKBOARD_ADDR", "LINKBOARD_ENV", "JWT_SIGNING_KEY", "JWT_SIGNING_KEY_FILE",
	"JWT_SIGNING_ALG", "JWT_ISSUER", "JWT_AUDIENCE", "SESSION_TOKEN_TTL",
	"REMEMBER_ME_TOKEN_TTL", "LOGIN_USERNAME_THRESHOLD", "LOGIN_IP_THRESHOLD",
	"LOGIN_WINDOW", "RATE_LIMIT_CLEANUP_INTERVAL", "DATABASE_URL", "REDIS_URL",
	"JTI_BACKEND", "JTI_FILE_PATH", "TRUSTED_PROXIES", "SENTRY_DSN",
}

// clearEnv blanks every variable FromEnv reads. Empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}
