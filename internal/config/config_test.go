package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var configVars = []string{
	"APP_ENV", "ADMIN_API_BASE_URL", "ADMIN_TOKEN_FILE", "ADMIN_API_TIMEOUT",
	"ADMIN_RETRY_COUNT", "ADMIN_RETRY_DELAY", "ADMIN_HTTP_RETRIES",
	"ADMIN_RATE_LIMIT", "LOG_LEVEL", "LOG_FORMAT", "SENTRY_DSN",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "http://localhost:8013", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryCount)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 0, cfg.HTTPRetries)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultTokenFile(), cfg.TokenFile)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_API_BASE_URL", "https://admin.example.com/api")
	t.Setenv("ADMIN_TOKEN_FILE", "/var/lib/ragadmin/token.json")
	t.Setenv("ADMIN_API_TIMEOUT", "5s")
	t.Setenv("ADMIN_RETRY_COUNT", "0")
	t.Setenv("ADMIN_RETRY_DELAY", "250ms")
	t.Setenv("ADMIN_HTTP_RETRIES", "2")
	t.Setenv("ADMIN_RATE_LIMIT", "2.5")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com/api", cfg.BaseURL)
	assert.Equal(t, "/var/lib/ragadmin/token.json", cfg.TokenFile)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.RetryCount)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 2, cfg.HTTPRetries)
	assert.InDelta(t, 2.5, cfg.RateLimit, 0.0001)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"negative retries", "ADMIN_RETRY_COUNT", "-1", "ADMIN_RETRY_COUNT must not be negative, got -1"},
		{"zero timeout", "ADMIN_API_TIMEOUT", "0s", "ADMIN_API_TIMEOUT must be positive, got 0s"},
		{"negative rate", "ADMIN_RATE_LIMIT", "-3", "ADMIN_RATE_LIMIT must not be negative, got -3"},
		{"unparsable duration", "ADMIN_RETRY_DELAY", "soon", "failed to load environment variables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ClientOptions(t *testing.T) {
	cfg := &Config{
		AppEnv:      "staging",
		BaseURL:     "http://backend:8013",
		TokenFile:   "/tmp/token.json",
		Timeout:     10 * time.Second,
		HTTPRetries: 3,
		RateLimit:   0.5,
		SentryDSN:   "https://key@sentry.example.com/1",
	}

	opts := cfg.ClientOptions(nil)

	assert.Equal(t, "http://backend:8013", opts.BaseURL)
	assert.Equal(t, "/tmp/token.json", opts.TokenFile)
	assert.Equal(t, 10*time.Second, opts.Timeout)
	require.NotNil(t, opts.RetryConfig)
	assert.Equal(t, 3, opts.RetryConfig.MaxRetries)

	limiter, ok := opts.RateLimiter.(*rate.Limiter)
	require.True(t, ok)
	assert.Equal(t, rate.Limit(0.5), limiter.Limit())
	assert.Equal(t, 1, limiter.Burst())

	require.NotNil(t, opts.SentryOptions)
	assert.Equal(t, "staging", opts.SentryOptions.Environment)

	bare := (&Config{BaseURL: "http://backend:8013"}).ClientOptions(nil)
	assert.Nil(t, bare.RetryConfig)
	assert.Nil(t, bare.RateLimiter)
	assert.Nil(t, bare.SentryOptions)
}

func TestFetchOptions(t *testing.T) {
	cfg := &Config{RetryCount: 4, RetryDelay: 2 * time.Second}

	opts := FetchOptions[[]string](cfg, nil)
	assert.Equal(t, 4, opts.RetryCount)
	assert.Equal(t, 2*time.Second, opts.RetryDelay)
}
