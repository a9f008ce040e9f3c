package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DB_TYPE", "DB_PATH", "DATABASE_URL", "MIGRATIONS_PATH", "APP_BASE_URL",
	"RECEIPT_SIGNING_KEY", "RECEIPT_TTL", "AWS_REGION", "SES_FROM_EMAIL", "SES_FROM_NAME",
	"RATE_LIMIT_PER_MINUTE", "LOG_LEVEL", "DEBUG",
}

// clearEnv blanks every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "./sentencescramble.db", cfg.DatabasePath)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, 30*24*time.Hour, cfg.ReceiptTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.EmailEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/scramble?sslmode=disable")
	t.Setenv("RECEIPT_TTL", "2h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("SES_FROM_EMAIL", "homework@example.com")
	t.Setenv("DEBUG", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, 2*time.Hour, cfg.ReceiptTTL)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.EmailEnabled())
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown database", env: map[string]string{"DB_TYPE": "oracle"}},
		{name: "postgres without url", env: map[string]string{"DB_TYPE": "postgres"}},
		{name: "mysql without url", env: map[string]string{"DB_TYPE": "mysql"}},
		{name: "bad duration", env: map[string]string{"RECEIPT_TTL": "soon"}},
		{name: "bad rate limit", env: map[string]string{"RATE_LIMIT_PER_MINUTE": "lots"}},
		{name: "zero rate limit", env: map[string]string{"RATE_LIMIT_PER_MINUTE": "0"}},
		{name: "bad bool", env: map[string]string{"DEBUG": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv.Load does not override variables that are already set, even
	// to "", so the key under test must be truly unset.
	require.NoError(t, os.Unsetenv("SES_FROM_NAME"))
	t.Cleanup(func() { os.Unsetenv("SES_FROM_NAME") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SES_FROM_NAME=Room 12\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Room 12", cfg.SESFromName)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	_, err := Load()
	assert.NoError(t, err)
}
