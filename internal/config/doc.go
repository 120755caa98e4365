// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for todochat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.todochat/config.toml
//   - ~/.todochat/config.json
//   - Built-in defaults
//
// A file watcher is available for picking up config edits while the
// application is running.
package config
