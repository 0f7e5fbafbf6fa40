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

Once loaded, the configuration is read-only and passed to constructors.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the support API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// RSA key pair used to sign access tokens
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"yomira.app"`

	// Page gate redirect targets
	LoginPath    string `env:"LOGIN_PATH"    envDefault:"/login"`
	FallbackPath string `env:"FALLBACK_PATH" envDefault:"/support"`

	// PageCacheTTL bounds how long a public page payload may be served from Redis.
	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"60s"`

	// OwnerEmails are promoted to the owner role at startup.
	OwnerEmails []string `env:"OWNER_EMAILS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.OwnerEmails = normalizeEmails(cfg.OwnerEmails)

	return cfg, nil
}

// validate rejects values that parse but cannot work at runtime.
func (c *Config) validate() error {
	if !strings.HasPrefix(c.LoginPath, "/") {
		return fmt.Errorf("config: LOGIN_PATH must be an absolute path, got %q", c.LoginPath)
	}
	if !strings.HasPrefix(c.FallbackPath, "/") {
		return fmt.Errorf("config: FALLBACK_PATH must be an absolute path, got %q", c.FallbackPath)
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("config: PAGE_CACHE_TTL must not be negative")
	}
	return nil
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			out = append(out, email)
		}
	}
	return out
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginAllowed reports whether a browser origin may call the API in production.
func (c *Config) OriginAllowed(origin string) bool {
	return c.AllowedOriginSuffix != "" && strings.HasSuffix(origin, c.AllowedOriginSuffix)
}
