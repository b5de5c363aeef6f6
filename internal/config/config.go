// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultDBPassword = "changeme"
	defaultJWTSecret  = "dev-secret-change-me"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port     string `envconfig:"APP_PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"` // "development", "production", "testing"
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`

	// Database backend: "postgres" for deployments, "sqlite" for local runs.
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	DBPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	DBUser     string `envconfig:"POSTGRES_USER" default:"shop"`
	DBPassword string `envconfig:"POSTGRES_PASSWORD" default:"changeme"`
	DBName     string `envconfig:"POSTGRES_DB" default:"shop"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"shop.db"`

	// Valkey (Redis-compatible cache). An empty host disables the response cache.
	ValkeyHost     string `envconfig:"VALKEY_HOST"`
	ValkeyPort     string `envconfig:"VALKEY_PORT" default:"6379"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`

	// Token signing
	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"shop"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"2h"`

	// CacheTTL is the max-age advertised on cacheable list responses.
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"30s"`

	// Manager account created by the development seed.
	SeedUsername string `envconfig:"SEED_MANAGER_USERNAME" default:"manager"`
	SeedPassword string `envconfig:"SEED_MANAGER_PASSWORD" default:"manager"`
}

// Load reads configuration from environment variables (and a .env file in the
// working directory, when present), applying defaults for development where
// appropriate. Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}

	if cfg.Env == "production" {
		if cfg.DBDriver == "postgres" && (cfg.DBPassword == "" || cfg.DBPassword == defaultDBPassword) {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether a Valkey host is configured.
func (c *Config) CacheEnabled() bool {
	return c.ValkeyHost != ""
}
