// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/todochat-tui/internal/gateway"
	"github.com/jeranaias/todochat-tui/internal/session"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendMessageCmd creates a command that sends a staged message through the
// gateway. The pending send carries everything the completion handlers need,
// so the command itself never touches the controller.
func SendMessageCmd(gw *gateway.Client, userID string, pending *session.PendingSend) tea.Cmd {
	return func() tea.Msg {
		// No deadline here: the backend can legitimately take a while when
		// the assistant runs tools. Cancellation comes from program exit.
		ctx := context.Background()

		req := gateway.NewChatRequest(pending.Content, pending.IssuedConversationID)
		resp, err := gw.SendMessage(ctx, userID, req)
		if err != nil {
			return ChatFailedMsg{Pending: pending, Err: err}
		}

		return ChatRepliedMsg{Pending: pending, Response: resp}
	}
}
