// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Postgres and Redis are optional: leaving DATABASE_URL or REDIS_URL empty turns
the archive or the page cache off.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// minSecretLength is the shortest SESSION_SECRET accepted.
const minSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the character API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	Upstream

	// Relational archive (PostgreSQL), optional
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Session token signing and lifetime
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"30m"`

	// Cross-Origin Resource Sharing, comma-separated
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// Upstream configures access to the character API. It is shared by the
// server and the terminal client.
type Upstream struct {
	APIBaseURL      string        `env:"API_BASE_URL"      envDefault:"https://rickandmortyapi.com/api"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT"  envDefault:"10s"`
	UpstreamRPS     float64       `env:"UPSTREAM_RPS"      envDefault:"5"`
	UpstreamBurst   int           `env:"UPSTREAM_BURST"    envDefault:"10"`

	// Page cache (Redis), optional
	RedisURL     string        `env:"REDIS_URL"`
	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"10m"`
}

// Terminal holds the settings of the terminal client.
type Terminal struct {
	Upstream

	Debug bool `env:"DEBUG" envDefault:"false"`

	// LogFile receives JSON logs. Empty discards them, since stdout belongs
	// to the UI.
	LogFile string `env:"RICKMORTY_LOG"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// LoadTerminal parses the terminal client's settings.
func LoadTerminal() (*Terminal, error) {
	cfg := &Terminal{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := errors.Join(cfg.Upstream.validate()...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	errs := c.Upstream.validate()

	if len(c.SessionSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func (u Upstream) validate() []error {
	var errs []error

	if u.UpstreamTimeout < 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT must not be negative"))
	}
	if u.UpstreamRPS <= 0 {
		errs = append(errs, errors.New("UPSTREAM_RPS must be positive"))
	}
	if u.UpstreamBurst < 1 {
		errs = append(errs, errors.New("UPSTREAM_BURST must be at least 1"))
	}

	return errs
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ArchiveEnabled reports whether a Postgres archive is configured.
func (c *Config) ArchiveEnabled() bool { return c.DatabaseURL != "" }

// CacheEnabled reports whether a Redis page cache is configured.
func (u Upstream) CacheEnabled() bool { return u.RedisURL != "" }

// AllowedOrigins returns the trimmed, non-empty entries of EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
