// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jeranaias/todochat-tui/internal/util"
)

// TitleMaxLen is the maximum length of an auto-derived conversation title.
const TitleMaxLen = 50

// DefaultTitle is shown for a conversation that never derived a title.
const DefaultTitle = "Untitled Conversation"

// NoMessagesSentinel is the lastMessage shown for an empty conversation.
const NoMessagesSentinel = "No messages"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered chat thread and its metadata.
//
// UserID partitions visibility: a conversation is never shown to, or mutated
// on behalf of, a user other than its owner. Messages are chronological and
// append-only from the controller's perspective.
type Conversation struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Title     string         `json:"title,omitempty"`
	Messages  []*ChatMessage `json:"messages"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewConversation creates an empty conversation owned by userID with a
// generated ID.
func NewConversation(userID string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		UserID:    userID,
		Messages:  make([]*ChatMessage, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewConversationWithID creates an empty conversation with an ID assigned by
// the remote endpoint.
func NewConversationWithID(id, userID string) *Conversation {
	conv := NewConversation(userID)
	conv.ID = id
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message, stamps its owning conversation, and
// refreshes UpdatedAt.
func (c *Conversation) AddMessage(msg *ChatMessage) {
	msg.ConversationID = c.ID
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.deriveTitle()
}

// HasMessage reports whether a message with the given ID is present.
func (c *Conversation) HasMessage(id string) bool {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return true
		}
	}
	return false
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *ChatMessage {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// OwnedBy reports whether the conversation belongs to userID.
func (c *Conversation) OwnedBy(userID string) bool {
	return c.UserID == userID
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// deriveTitle sets the title from the first message once, if unset.
func (c *Conversation) deriveTitle() {
	if c.Title != "" || len(c.Messages) == 0 {
		return
	}
	first := c.Messages[0]
	if first.Content == "" {
		return
	}
	c.Title = util.TruncateRunesNoEllipsis(util.CollapseWhitespace(first.Content), TitleMaxLen)
}

// DisplayTitle returns the title or the default for untitled conversations.
func (c *Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return DefaultTitle
}

// =============================================================================
// METADATA PROJECTION
// =============================================================================

// ConversationMetadata is the derived, read-only projection used for list
// display. It is recomputed from the conversation set on demand and never
// persisted independently.
type ConversationMetadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	UserID      string    `json:"userId"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
}

// Metadata projects the conversation into its list-view record.
func (c *Conversation) Metadata() ConversationMetadata {
	last := NoMessagesSentinel
	if msg := c.LastMessage(); msg != nil {
		last = msg.Content
	}
	return ConversationMetadata{
		ID:          c.ID,
		Title:       c.DisplayTitle(),
		UserID:      c.UserID,
		LastMessage: last,
		Timestamp:   c.UpdatedAt,
	}
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  make([]*ChatMessage, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}
