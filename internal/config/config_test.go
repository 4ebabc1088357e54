// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("default port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/cinemate.db" {
		t.Errorf("default database path = %q", cfg.Database.Path)
	}
	if cfg.Recommend.ContentQuota != 0.6 {
		t.Errorf("default content quota = %f, want 0.6", cfg.Recommend.ContentQuota)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RECOMMEND_BLEND_MODE", "weighted")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Errorf("api key = %q, want test-key", cfg.TMDB.APIKey)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 ||
		cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("cors origins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if string(cfg.Recommend.Mode) != "weighted" {
		t.Errorf("blend mode = %q, want weighted", cfg.Recommend.Mode)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9100\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep defaults.
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Server.Timeout)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Error("expected validation error for out-of-range port")
	}
}

func TestEnvTransformDropsUnknown(t *testing.T) {
	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("unmapped variable mapped to %q, want empty", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Errorf("HTTP_PORT mapped to %q", got)
	}
}
