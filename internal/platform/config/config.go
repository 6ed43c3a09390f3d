// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first when present, so development machines do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Darkshelf API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	Database DatabaseConfig `envPrefix:"DATABASE_"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis), carries the catalog staleness signal
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Cross-Origin Resource Sharing, comma separated
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// DatabaseConfig describes how to reach the catalog store and how large its pool may grow.
type DatabaseConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	Name     string `env:"NAME"     envDefault:"postgres"`
	User     string `env:"USER"     envDefault:"order"`
	Password string `env:"PASSWORD"`
	SSLMode  string `env:"SSLMODE"  envDefault:"disable"`

	// MaxPoolSize bounds the number of concurrent store connections.
	MaxPoolSize int32 `env:"MAX_POOL_SIZE" envDefault:"20"`

	// IdleTimeout closes connections that sat unused for this long.
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT" envDefault:"30s"`

	// ConnectTimeout caps the time spent establishing one connection.
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"2s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// Variables from a '.env' file in the working directory are applied first.
// Already exported variables always win over the file.
func Load() (*Config, error) {

	// A missing .env is the normal case outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment into a [Config] without touching '.env'.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values that parse cleanly but cannot work at runtime.
func (c *Config) Validate() error {
	switch {
	case c.Database.Port < 1 || c.Database.Port > 65535:
		return fmt.Errorf("config: DATABASE_PORT out of range: %d", c.Database.Port)
	case c.Database.MaxPoolSize < 1:
		return fmt.Errorf("config: DATABASE_MAX_POOL_SIZE must be positive: %d", c.Database.MaxPoolSize)
	case c.Database.IdleTimeout <= 0:
		return errors.New("config: DATABASE_IDLE_TIMEOUT must be positive")
	case c.Database.ConnectTimeout <= 0:
		return errors.New("config: DATABASE_CONNECT_TIMEOUT must be positive")
	case c.Database.Name == "":
		return errors.New("config: DATABASE_NAME must not be empty")
	}
	return nil
}

// DSN renders the database settings as a postgres:// URL understood by pgx and golang-migrate.
func (d DatabaseConfig) DSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}

	if d.Password != "" {
		dsn.User = url.UserPassword(d.User, d.Password)
	} else {
		dsn.User = url.User(d.User)
	}

	query := dsn.Query()
	query.Set("sslmode", d.SSLMode)
	dsn.RawQuery = query.Encode()

	return dsn.String()
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// OriginAllowed reports whether a browser origin may call the API.
// Development accepts every origin.
func (c *Config) OriginAllowed(origin string) bool {
	if c.IsDevelopment() {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
