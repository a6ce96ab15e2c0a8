// Package config loads command configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/eshaffer321/ragadmin-go/pkg/admin"
	"github.com/eshaffer321/ragadmin-go/pkg/fetch"
)

// Config holds everything the commands read from the environment
type Config struct {
	AppEnv    string        `env:"APP_ENV" envDefault:"development"`
	BaseURL   string        `env:"ADMIN_API_BASE_URL" envDefault:"http://localhost:8013"`
	TokenFile string        `env:"ADMIN_TOKEN_FILE"`
	Timeout   time.Duration `env:"ADMIN_API_TIMEOUT" envDefault:"30s"`

	// RetryCount and RetryDelay drive fetch controllers
	RetryCount int           `env:"ADMIN_RETRY_COUNT" envDefault:"3"`
	RetryDelay time.Duration `env:"ADMIN_RETRY_DELAY" envDefault:"1s"`

	// HTTPRetries enables transport-level retries when positive
	HTTPRetries int `env:"ADMIN_HTTP_RETRIES" envDefault:"0"`

	// RateLimit is requests per second; zero disables limiting
	RateLimit float64 `env:"ADMIN_RATE_LIMIT" envDefault:"0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	SentryDSN string `env:"SENTRY_DSN"`
}

// Load reads .env from the working directory when present, then parses
// the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultTokenFile is ragadmin/token.json under the user config directory
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ragadmin", "token.json")
}

func validate(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("ADMIN_API_BASE_URL is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("ADMIN_API_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	if cfg.RetryCount < 0 {
		return fmt.Errorf("ADMIN_RETRY_COUNT must not be negative, got %d", cfg.RetryCount)
	}
	if cfg.RetryDelay < 0 {
		return fmt.Errorf("ADMIN_RETRY_DELAY must not be negative, got %s", cfg.RetryDelay)
	}
	if cfg.HTTPRetries < 0 {
		return fmt.Errorf("ADMIN_HTTP_RETRIES must not be negative, got %d", cfg.HTTPRetries)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("ADMIN_RATE_LIMIT must not be negative, got %g", cfg.RateLimit)
	}
	return nil
}

// ClientOptions maps the configuration onto admin client options
func (c *Config) ClientOptions(logger admin.Logger) *admin.ClientOptions {
	opts := &admin.ClientOptions{
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		TokenFile: c.TokenFile,
		Logger:    logger,
	}

	if c.HTTPRetries > 0 {
		opts.RetryConfig = &admin.RetryConfig{
			MaxRetries: c.HTTPRetries,
			RetryWait:  500 * time.Millisecond,
			MaxWait:    5 * time.Second,
		}
	}

	if c.RateLimit > 0 {
		burst := int(c.RateLimit)
		if burst < 1 {
			burst = 1
		}
		opts.RateLimiter = rate.NewLimiter(rate.Limit(c.RateLimit), burst)
	}

	if c.SentryDSN != "" {
		opts.SentryDSN = c.SentryDSN
		opts.SentryOptions = &sentry.ClientOptions{
			Environment: c.AppEnv,
			Release:     admin.UserAgent,
		}
	}

	return opts
}

// FetchOptions returns controller options carrying the retry settings
func FetchOptions[T any](c *Config, logger admin.Logger) *fetch.Options[T] {
	return &fetch.Options[T]{
		RetryCount: c.RetryCount,
		RetryDelay: c.RetryDelay,
		Logger:     logger,
	}
}
