package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV": "test", "APP_PORT": "8080",
		"DB_USER": "root", "DB_HOST": "localhost", "DB_PORT": "3306", "DB_NAME": "seats",
		"JWT_SECRET": "s3cret", "ACCESS_TOKEN_TTL_MIN": "15", "REFRESH_TOKEN_TTL_DAYS": "7",
		"BCRYPT_COST": "4",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_DOMAIN", "@Company.COM")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, "company.com", cfg.EmailDomain)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ReportsAllProblems(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("BCRYPT_COST", "ten")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(f, []byte("SEAT_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("SEAT_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("SEAT_TEST_VALUE"))

	require.NoError(t, LoadDotEnv(f, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("SEAT_TEST_VALUE"))
}

func TestLoadNotifyConfig(t *testing.T) {
	t.Setenv("NOTIFY_BUFFER", "16")
	t.Setenv("NOTIFY_PUBLISH_TIMEOUT", "2s")

	c, err := LoadNotifyConfig()
	require.NoError(t, err)
	assert.Equal(t, 16, c.Buffer)
	assert.Equal(t, 2*time.Second, c.PublishTimeout)
	assert.Equal(t, "reservation.notifications", c.Queue)
	assert.Equal(t, 587, c.SMTPPort)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "500ms")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 2500*time.Millisecond, c.TTL)
	assert.InDelta(t, 2.0, c.PerSecond(), 0.001)
}
