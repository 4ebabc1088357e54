// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

// Package config defines the application configuration and loads it
// from layered sources: built-in defaults, an optional YAML file, and
// environment variables, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/Jihx-0/cinemate-recommendation-engine/internal/catalog"
	"github.com/Jihx-0/cinemate-recommendation-engine/internal/recommend"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig       `koanf:"server"`
	Database  DatabaseConfig     `koanf:"database"`
	TMDB      catalog.TMDBConfig `koanf:"tmdb"`
	Catalog   CatalogConfig      `koanf:"catalog"`
	Security  SecurityConfig     `koanf:"security"`
	Logging   LoggingConfig      `koanf:"logging"`
	Recommend recommend.Config   `koanf:"recommend"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// CatalogConfig controls catalog population and caching.
type CatalogConfig struct {
	CachePath string `koanf:"cache_path"`
	Pages     int    `koanf:"pages"`
}

// SecurityConfig holds session and request-limiting settings.
type SecurityConfig struct {
	CookieSecure    bool          `koanf:"cookie_secure"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, overridden by config
// file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    5000,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "data/cinemate.db",
		},
		TMDB: catalog.DefaultTMDBConfig(),
		Catalog: CatalogConfig{
			CachePath: "data/cached_movies.json",
			Pages:     catalog.DefaultPages,
		},
		Security: SecurityConfig{
			CookieSecure:    false,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: recommend.DefaultConfig(),
	}
}

// Validate checks cross-field configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Catalog.Pages <= 0 {
		return fmt.Errorf("catalog.pages must be positive, got %d", c.Catalog.Pages)
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
