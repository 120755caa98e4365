// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/todochat-tui/internal/util"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAI:
		return "Assistant"
	default:
		return string(s)
	}
}

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status tracks the delivery lifecycle of a message.
//
// Transitions run forward only: sending -> delivered or sending -> error.
// A terminal status never changes; a resend creates a new message instance.
type Status string

const (
	StatusSending   Status = "sending"
	StatusDelivered Status = "delivered"
	StatusError     Status = "error"
)

// IsTerminal returns true if the status admits no further transition.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusError
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage represents a single message in a conversation.
//
// Sender is immutable after creation. A user message created optimistically
// carries a provisional ID and an empty ConversationID until the remote
// round-trip completes and assigns the definitive conversation.
type ChatMessage struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Sender         Sender    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
	Status         Status    `json:"status"`
	ConversationID string    `json:"conversationId"`

	// Tool activity reported alongside an AI reply.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall records one tool invocation the assistant performed while
// producing a reply.
type ToolCall struct {
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
	Result     map[string]any `json:"result"`
}

// NewUserMessage creates an optimistic user message in the sending state.
// The ID is provisional until delivery is confirmed.
func NewUserMessage(content, conversationID string) *ChatMessage {
	return &ChatMessage{
		ID:             provisionalID(),
		Content:        content,
		Sender:         SenderUser,
		Timestamp:      time.Now(),
		Status:         StatusSending,
		ConversationID: conversationID,
	}
}

// NewAIMessage creates a delivered assistant message with the ID assigned by
// the remote endpoint.
func NewAIMessage(id, content, conversationID string) *ChatMessage {
	if id == "" {
		id = generateMessageID()
	}
	return &ChatMessage{
		ID:             id,
		Content:        content,
		Sender:         SenderAI,
		Timestamp:      time.Now(),
		Status:         StatusDelivered,
		ConversationID: conversationID,
	}
}

// =============================================================================
// CHAT MESSAGE METHODS
// =============================================================================

// MarkDelivered transitions a sending message to delivered and stamps the
// conversation the remote endpoint assigned it to. Terminal states are left
// untouched.
func (m *ChatMessage) MarkDelivered(conversationID string) {
	if m.Status.IsTerminal() {
		return
	}
	m.Status = StatusDelivered
	if conversationID != "" {
		m.ConversationID = conversationID
	}
}

// MarkFailed transitions a sending message to the error state. Terminal
// states are left untouched.
func (m *ChatMessage) MarkFailed() {
	if m.Status.IsTerminal() {
		return
	}
	m.Status = StatusError
}

// IsProvisional returns true while the message awaits remote confirmation.
func (m *ChatMessage) IsProvisional() bool {
	return m.Status == StatusSending
}

// Preview returns a single-line, rune-safe preview of the content.
func (m *ChatMessage) Preview(maxLen int) string {
	return util.TruncateRunes(util.CollapseWhitespace(m.Content), maxLen)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// provisionalID creates the temporary ID an optimistic message carries until
// the server confirms delivery.
func provisionalID() string {
	return "temp-" + uuid.NewString()
}

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
