// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default base URL http://localhost:8000, got %s", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected default theme dark, got %s", cfg.UI.Theme)
	}
	if !cfg.UI.Markdown {
		t.Error("expected markdown rendering on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"https base", func(c *Config) { c.API.BaseURL = "https://api.example.com" }, false},
		{"empty base", func(c *Config) { c.API.BaseURL = "" }, true},
		{"no scheme", func(c *Config) { c.API.BaseURL = "localhost:8000" }, true},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, true},
		{"light theme", func(c *Config) { c.UI.Theme = "light" }, false},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("TODOCHAT_API_BASE", "http://10.0.0.5:9000")
	t.Setenv("TODOCHAT_STORAGE_DIR", "/tmp/todochat-test")
	t.Setenv("TODOCHAT_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("base URL override not applied: %s", cfg.API.BaseURL)
	}
	if cfg.Storage.Dir != "/tmp/todochat-test" {
		t.Errorf("storage dir override not applied: %s", cfg.Storage.Dir)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme override not applied: %s", cfg.UI.Theme)
	}
}

func TestSaveAndLoadTOML(t *testing.T) {
	t.Setenv("TODOCHAT_API_BASE", "")
	t.Setenv("TODOCHAT_THEME", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://assistant.example.com"
	cfg.UI.Theme = "light"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(buf) == 0 {
		t.Fatal("saved config is empty")
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.BaseURL != "https://assistant.example.com" {
		t.Errorf("base URL not round-tripped: %s", loaded.API.BaseURL)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("theme not round-tripped: %s", loaded.UI.Theme)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	t.Setenv("TODOCHAT_API_BASE", "")
	t.Setenv("TODOCHAT_THEME", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"api": {"base_url": "http://localhost:4000"}}`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:4000" {
		t.Errorf("expected base URL from file, got %s", cfg.API.BaseURL)
	}
	// Missing fields fall back to defaults
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected default theme for missing field, got %s", cfg.UI.Theme)
	}
}

func TestLoadFromPathMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("this is { not toml"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	t.Setenv("TODOCHAT_API_BASE", "http://override:1234")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := SaveTOML(Default(), path); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://override:1234" {
		t.Errorf("env override should win over file, got %s", cfg.API.BaseURL)
	}
}

func TestIsConfigFile(t *testing.T) {
	if !isConfigFile("/home/u/.todochat/config.toml") {
		t.Error("config.toml should be recognized")
	}
	if !isConfigFile("config.json") {
		t.Error("config.json should be recognized")
	}
	if isConfigFile("/home/u/.todochat/conversations.json") {
		t.Error("conversations.json should not be recognized")
	}
}
