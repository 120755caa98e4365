// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/todochat-tui/internal/gateway"
	"github.com/jeranaias/todochat-tui/internal/session"
)

// =============================================================================
// GATEWAY MESSAGES
// =============================================================================

// ChatRepliedMsg delivers a successful assistant reply for a pending send.
type ChatRepliedMsg struct {
	Pending  *session.PendingSend
	Response *gateway.ChatResponse
}

// ChatFailedMsg signals that a pending send failed.
type ChatFailedMsg struct {
	Pending *session.PendingSend
	Err     error
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// DismissErrorMsg clears the error banner.
type DismissErrorMsg struct{}

// ConfigReloadedMsg signals that the on-disk config changed while running.
// The gateway base URL is fixed for the life of the process, so only display
// settings are carried.
type ConfigReloadedMsg struct {
	Markdown bool
}
