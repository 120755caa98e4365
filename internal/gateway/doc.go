// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the client for the remote todo-assistant chat
// endpoint.
//
// The gateway is a pure network client: it sends one message per call under
// bearer-token auth and returns the assistant's reply. It never touches the
// conversation store; reconciling and persisting the reply is the session
// controller's job, which keeps exactly one writer for each conversation.
//
// Failures are normalized into a small taxonomy the UI can map to tailored
// wording: auth (missing token or 401/403), network (transport-level),
// HTTP (any other non-2xx, carrying the status), and generic (everything
// else). Classify reports the kind for any error returned from this
// package.
package gateway
