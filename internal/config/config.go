// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds everything the binary needs to wire its adapters.
type Config struct {
	Addr         string
	Store        string
	DatabaseURL  string
	SQLitePath   string
	SyncInterval time.Duration

	HealthAPIURL       string
	HealthClientID     string
	HealthClientSecret string
	HealthTokenURL     string

	OIDCIssuer   string
	OIDCClientID string
	APIKeyHash   string

	LogLevel  logrus.Level
	LogFormat string
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing default .env is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	c := Config{
		Addr:               env("ADDR", ":8080"),
		Store:              strings.ToLower(env("STORE", StoreMemory)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         env("SQLITE_PATH", "data/biometrics.db"),
		HealthAPIURL:       os.Getenv("HEALTH_API_URL"),
		HealthClientID:     os.Getenv("HEALTH_CLIENT_ID"),
		HealthClientSecret: os.Getenv("HEALTH_CLIENT_SECRET"),
		HealthTokenURL:     os.Getenv("HEALTH_TOKEN_URL"),
		OIDCIssuer:         os.Getenv("OIDC_ISSUER"),
		OIDCClientID:       os.Getenv("OIDC_CLIENT_ID"),
		APIKeyHash:         os.Getenv("API_KEY_HASH"),
		LogFormat:          strings.ToLower(env("LOG_FORMAT", "text")),
	}

	var errs []error

	interval, err := time.ParseDuration(env("SYNC_INTERVAL", "15m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SYNC_INTERVAL: %w", err))
	} else if interval < 0 {
		errs = append(errs, errors.New("SYNC_INTERVAL must not be negative"))
	}
	c.SyncInterval = interval

	level, err := logrus.ParseLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	c.LogLevel = level

	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE must be one of %s, %s, %s", StoreMemory, StorePostgres, StoreSQLite))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, errors.New("LOG_FORMAT must be text or json"))
	}
	if c.HealthClientID != "" && c.HealthTokenURL == "" {
		errs = append(errs, errors.New("HEALTH_TOKEN_URL is required with HEALTH_CLIENT_ID"))
	}
	if c.OIDCIssuer != "" && c.OIDCClientID == "" {
		errs = append(errs, errors.New("OIDC_CLIENT_ID is required with OIDC_ISSUER"))
	}

	return c, errors.Join(errs...)
}

// AuthEnabled reports whether any API authentication is configured.
func (c Config) AuthEnabled() bool {
	return c.OIDCIssuer != "" || c.APIKeyHash != ""
}

// ConfigureLogger applies level and format to l.
func (c Config) ConfigureLogger(l *logrus.Logger) {
	l.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
