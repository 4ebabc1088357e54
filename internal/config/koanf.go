// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first match
// wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinemate/config.yaml",
	"/etc/cinemate/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from layered sources with precedence
// ENV > file > defaults, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env var strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables are dropped so stray environment noise cannot
// pollute the configuration.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		// Server
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// Database
		"database_path": "database.path",

		// TMDb
		"tmdb_api_key":        "tmdb.api_key",
		"tmdb_base_url":       "tmdb.base_url",
		"tmdb_image_base_url": "tmdb.image_base_url",
		"tmdb_timeout":        "tmdb.timeout",

		// Catalog
		"catalog_cache_path": "catalog.cache_path",
		"catalog_pages":      "catalog.pages",

		// Security
		"cookie_secure":       "security.cookie_secure",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"cors_origins":        "security.cors_origins",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Recommendation engine
		"recommend_content_quota":            "recommend.content_quota",
		"recommend_liked_threshold":          "recommend.liked_threshold",
		"recommend_fallback_liked_threshold": "recommend.fallback_liked_threshold",
		"recommend_neighbor_count":           "recommend.neighbor_count",
		"recommend_min_similarity":           "recommend.min_neighbor_similarity",
		"recommend_min_system_ratings":       "recommend.min_system_ratings",
		"recommend_max_vocabulary":           "recommend.max_vocabulary",
		"recommend_id_window":                "recommend.id_window",
		"recommend_blend_mode":               "recommend.blend_mode",
		"recommend_seed":                     "recommend.seed",
	}
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
