// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (upstream client, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the gateway is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Litbooks gateway.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// CatalogAPIURL is the base URL of the Litbooks catalog backend
	// (e.g. http://localhost:8000). All persistence lives behind it.
	CatalogAPIURL string `env:"CATALOG_API_URL,required"`

	// RedisURL points at the session store. When empty, the gateway falls
	// back to an in-process session store (single-instance deployments and
	// tests only).
	RedisURL string `env:"REDIS_URL"`

	// SessionSecret derives the key that seals upstream bearer tokens at
	// rest in the session store.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the gateway is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the gateway is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
