package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("JWT_SECRET", "secret")
	for _, key := range []string{
		"CORS_ORIGINS", "CORS_ALLOW_ALL", "CORS_ALLOW_CREDENTIALS",
		"VIEW_DEDUPE_WINDOW", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY",
		"SITE_URL", "GEMINI_EXTRACTION_MODEL", "REDIS_URL", "SMTP_HOST", "SMTP_FROM",
	} {
		unsetEnv(t, key)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:3000"}, cfg.GetCORSOrigins())
	assert.False(t, cfg.GetCORSAllowAll())
	assert.Equal(t, "redis://localhost:6379/0", cfg.GetRedisURL())
	assert.Equal(t, 5*time.Minute, cfg.GetViewDedupeWindow())
	assert.Equal(t, "gemini-2.0-flash", cfg.GetGeminiExtractionModel())
	assert.False(t, cfg.IsMinIOEnabled())
	assert.False(t, cfg.IsSMTPEnabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setRequired(t)
	unsetEnv(t, "DATABASE_URL")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://a.example.com, *")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.GetCORSAllowAll())
	assert.Equal(t, []string{"https://a.example.com", "*"}, cfg.GetCORSOrigins())
}

func TestLoadRequiresMinIOKeysWithEndpoint(t *testing.T) {
	setRequired(t)
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsMinIOEnabled())
	assert.Equal(t, "job-files", cfg.GetMinIOBucketJobFiles())
}

func TestLoadRejectsNonPositiveDedupeWindow(t *testing.T) {
	setRequired(t)
	t.Setenv("VIEW_DEDUPE_WINDOW", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadTrimsSiteURL(t *testing.T) {
	setRequired(t)
	t.Setenv("SITE_URL", "https://jobs.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com", cfg.GetSiteURL())
}
