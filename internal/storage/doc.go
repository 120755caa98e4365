// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable conversation persistence for todochat.
//
// The store keeps two logical keys under its base directory: a JSON list of
// all conversations (conversations.json) and a single current-conversation
// pointer (current_conversation). All operations are synchronous and fail
// soft: a corrupt or unavailable backing file degrades to "acts as empty"
// with diagnostic logging, never an error surfaced to the UI layer.
//
// The keyspace is shared across users; the owner-scoped accessors
// (MetadataFor, MostRecentFor, LoadOwned) are the single place user
// partitioning is enforced.
package storage
