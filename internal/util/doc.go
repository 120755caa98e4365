// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for todochat.
//
// The helpers here are deliberately dependency-free: safe file writes for
// the conversation store and rune-aware string truncation for titles and
// previews.
package util
