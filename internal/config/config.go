// Package config manages Ringside configuration.
//
// Configuration is read from environment variables with caarlos0/env and
// checked with Validate before anything connects to the database:
//
//	cfg, err := config.Load()
//	if err == nil {
//	    err = cfg.Validate()
//	}
//
// Key environment variables:
//
//	RINGSIDE_ENV                      development | production | test (default: development)
//	RINGSIDE_LOG_LEVEL                debug | info | warn | error (default: info)
//	RINGSIDE_CATALOG_PATH             YAML match-type catalog override (default: embedded)
//	RINGSIDE_CHAMPION_LEAD_MONTHS     months a seeded reign predates its title (default: 4)
//	RINGSIDE_ROSTER_HIRE_LEAD_MONTHS  months synthesized roster members predate the match (default: 2)
//	DB_HOST, DB_PORT, DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Env      string `env:"RINGSIDE_ENV" envDefault:"development"`
	LogLevel string `env:"RINGSIDE_LOG_LEVEL" envDefault:"info"`

	Database DatabaseConfig
	Roster   RosterConfig
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `env:"DB_HOST" envDefault:"localhost"`
	Port      string `env:"DB_PORT" envDefault:"8000"`
	Namespace string `env:"DB_NAMESPACE" envDefault:"ringside"`
	Database  string `env:"DB_DATABASE" envDefault:"main"`
	User      string `env:"DB_USER" envDefault:"root"`
	Password  string `env:"DB_PASSWORD" envDefault:"root"`
}

// RosterConfig holds the booking defaults used when building matches
type RosterConfig struct {
	CatalogPath        string `env:"RINGSIDE_CATALOG_PATH"`
	ChampionLeadMonths int    `env:"RINGSIDE_CHAMPION_LEAD_MONTHS" envDefault:"4"`
	HireLeadMonths     int    `env:"RINGSIDE_ROSTER_HIRE_LEAD_MONTHS" envDefault:"2"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Env != "development" && c.Env != "production" && c.Env != "test" {
		errs = append(errs, fmt.Errorf("RINGSIDE_ENV must be 'development', 'production', or 'test', got '%s'", c.Env))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}
	if c.IsProduction() && c.Database.Password == "root" {
		errs = append(errs, errors.New("DB_PASSWORD must be changed from the default in production"))
	}

	if c.Roster.ChampionLeadMonths < 0 {
		errs = append(errs, errors.New("RINGSIDE_CHAMPION_LEAD_MONTHS must not be negative"))
	}
	if c.Roster.HireLeadMonths < 0 {
		errs = append(errs, errors.New("RINGSIDE_ROSTER_HIRE_LEAD_MONTHS must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("RINGSIDE_LOG_LEVEL must be debug, info, warn or error, got '%s'", c.LogLevel)
}
