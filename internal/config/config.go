// Package config handles loading application configuration from environment
// variables (and optionally a YAML file). All config is centralized here so no
// other package reads env vars directly. Sensible defaults are provided for
// development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// devSecretKey is only used when SECRET_KEY is unset outside production.
const devSecretKey = "dev-secret-key-do-not-use-in-production!!"

// Config holds all application configuration. Populated at startup and
// passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string `yaml:"env" env:"ENV" env-default:"development"`

	// Port is the HTTP listen port (default: 8080).
	Port int `yaml:"port" env:"PORT" env-default:"8080"`

	// BaseURL is the public-facing URL used for links and redirects.
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"debug"`

	// Backend holds settings for the storefront REST API.
	Backend BackendConfig `yaml:"backend"`

	// Redis holds Redis connection settings.
	Redis RedisConfig `yaml:"redis"`

	// Auth holds authentication-related settings.
	Auth AuthConfig `yaml:"auth"`

	// RateLimit holds limits for the credential-handling endpoints.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TrustedProxies lists the CIDRs whose forwarding headers are believed
	// when resolving the client IP.
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" env-separator:"," env-default:"127.0.0.1/8,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,::1/128,fd00::/8"`
}

// BackendConfig describes how to reach the external REST API that owns
// users, products and collections.
type BackendConfig struct {
	// URL is the API root, e.g. "https://api.example.com/api/v1". Paths such
	// as "/auth/login" are appended to it verbatim.
	URL string `yaml:"url" env:"BACKEND_URL" env-default:"http://localhost:8081/api/v1"`

	// Timeout bounds every outbound call. Zero disables the timeout.
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SecretKey signs the session cookie (must be 32+ characters in production).
	SecretKey string `yaml:"secret_key" env:"SECRET_KEY"`

	// SessionTTL is how long sessions last before expiring.
	SessionTTL time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"720h"`
}

// RateLimitConfig holds per-IP limits for POST /login and POST /forgot-password.
type RateLimitConfig struct {
	// LoginPerMinute is the sustained login attempt rate per IP.
	LoginPerMinute int `yaml:"login_per_minute" env:"RATE_LIMIT_LOGIN" env-default:"10"`

	// ForgotPerMinute is the sustained forgot-password rate per IP.
	ForgotPerMinute int `yaml:"forgot_per_minute" env:"RATE_LIMIT_FORGOT" env-default:"5"`
}

// Load reads configuration. When CONFIG_PATH points at a YAML file it is read
// first and environment variables override it; otherwise only the environment
// is consulted. Returns an error if required variables are missing.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces production requirements and fills dev-only defaults.
func (c *Config) validate() error {
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}

	// Case-insensitive check catches common variants like "Production", "prod".
	if c.IsProduction() {
		if c.Auth.SecretKey == "" {
			return fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(c.Auth.SecretKey) < 32 {
			return fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if c.Auth.SecretKey == "" {
		c.Auth.SecretKey = devSecretKey
	}

	if c.RateLimit.LoginPerMinute <= 0 {
		c.RateLimit.LoginPerMinute = 10
	}
	if c.RateLimit.ForgotPerMinute <= 0 {
		c.RateLimit.ForgotPerMinute = 5
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
