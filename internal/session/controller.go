// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/todochat-tui/internal/gateway"
	"github.com/jeranaias/todochat-tui/internal/model"
	"github.com/jeranaias/todochat-tui/internal/storage"
)

// MaxMessageLength is the longest message the controller will send.
const MaxMessageLength = 1000

// User-facing error wording, per failure kind.
const (
	ErrMsgNotLoggedIn = "You must be logged in to send messages"
	ErrMsgEmpty       = "Message cannot be empty."
	ErrMsgTooLong     = "Message cannot exceed 1000 characters."
	ErrMsgAuth        = "Authentication error. Please log in again."
	ErrMsgNetwork     = "Network error. Please check your connection."
	ErrMsgGeneric     = "An unexpected error occurred."
)

// =============================================================================
// IDENTITY
// =============================================================================

// Identity is the authenticated user this session acts for. It is handed to
// the controller at construction; there is no process-global token holder.
type Identity struct {
	UserID string
	Token  string
}

// IsAuthenticated reports whether both a user and a token are present.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != "" && id.Token != ""
}

// =============================================================================
// PENDING SEND
// =============================================================================

// PendingSend records one in-flight optimistic send. The issued
// conversation id is captured so a response arriving after the user has
// switched conversations can be recognized as stale and discarded.
type PendingSend struct {
	// Message is the provisional user message appended to the timeline.
	Message *model.ChatMessage

	// IssuedConversationID is the live conversation id at send time
	// ("" for a brand-new conversation).
	IssuedConversationID string

	// Content is the text submitted, kept verbatim for retry.
	Content string
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the live message timeline and session state for the
// currently displayed conversation.
type Controller struct {
	store    *storage.Store
	gw       *gateway.Client
	identity Identity

	messages    []*model.ChatMessage
	currentID   string
	loading     bool
	errMsg      string
	lastAttempt string
}

// NewController wires a controller for one identity and rehydrates the most
// recently updated conversation owned by that identity, if any.
func NewController(store *storage.Store, gw *gateway.Client, identity Identity) *Controller {
	gw.SetToken(identity.Token)

	c := &Controller{
		store:    store,
		gw:       gw,
		identity: identity,
		messages: make([]*model.ChatMessage, 0),
	}
	c.rehydrate()
	return c
}

// rehydrate restores the live timeline from the most recent stored
// conversation belonging to the active user.
func (c *Controller) rehydrate() {
	conv, err := c.store.MostRecentFor(c.identity.UserID)
	if err != nil {
		return
	}
	c.adoptConversation(conv)
}

// adoptConversation replaces the live timeline with a stored conversation.
func (c *Controller) adoptConversation(conv *model.Conversation) {
	clone := conv.Clone()
	c.messages = clone.Messages
	c.currentID = conv.ID
	c.store.SetCurrentID(conv.ID)
}

// =============================================================================
// SESSION STATE ACCESSORS
// =============================================================================

// Messages returns the live timeline.
func (c *Controller) Messages() []*model.ChatMessage {
	return c.messages
}

// CurrentConversationID returns the active conversation id, or "" for a
// new, unsaved conversation.
func (c *Controller) CurrentConversationID() string {
	return c.currentID
}

// IsLoading reports whether a send is outstanding. The input surface must
// stay disabled while true; only one send may be in flight.
func (c *Controller) IsLoading() bool {
	return c.loading
}

// Err returns the current session error banner text, or "".
func (c *Controller) Err() string {
	return c.errMsg
}

// ClearError dismisses the session error banner.
func (c *Controller) ClearError() {
	c.errMsg = ""
}

// Identity returns the identity this session acts for.
func (c *Controller) Identity() Identity {
	return c.identity
}

// Gateway returns the remote chat client, for use by send commands.
func (c *Controller) Gateway() *gateway.Client {
	return c.gw
}

// Metadata returns the history list for the active user, most recent first.
func (c *Controller) Metadata() []model.ConversationMetadata {
	metas := c.store.MetadataFor(c.identity.UserID)
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].Timestamp.After(metas[j].Timestamp)
	})
	return metas
}

// =============================================================================
// CONVERSATION SWITCHING
// =============================================================================

// SelectConversation loads a stored conversation into the live timeline.
// A conversation that does not exist or belongs to another user is
// rejected: the current view stays untouched.
func (c *Controller) SelectConversation(id string) bool {
	conv, err := c.store.LoadOwned(id, c.identity.UserID)
	if err != nil {
		return false
	}
	c.adoptConversation(conv)
	c.errMsg = ""
	return true
}

// NewConversation clears the live timeline and the current pointer without
// touching stored data. The next successful send creates a fresh
// conversation id server-side.
func (c *Controller) NewConversation() {
	c.messages = make([]*model.ChatMessage, 0)
	c.currentID = ""
	c.errMsg = ""
	c.store.ClearCurrentID()
}

// DeleteConversation removes a stored conversation. Deleting the active one
// also clears the live timeline and pointer.
func (c *Controller) DeleteConversation(id string) {
	c.store.Delete(id)
	if c.currentID == id {
		c.messages = make([]*model.ChatMessage, 0)
		c.currentID = ""
		c.store.ClearCurrentID()
	}
}

// =============================================================================
// SEND STATE MACHINE
// =============================================================================

// BeginSend validates the message, appends the optimistic user message to
// the timeline, and marks the session loading. It returns nil when the send
// was rejected (unauthenticated, invalid input, or a send already in
// flight); rejection reasons land in Err, and no optimistic message is
// created for a rejected send.
func (c *Controller) BeginSend(content string) *PendingSend {
	if c.loading {
		return nil
	}
	if !c.identity.IsAuthenticated() {
		c.errMsg = ErrMsgNotLoggedIn
		return nil
	}
	if strings.TrimSpace(content) == "" {
		c.errMsg = ErrMsgEmpty
		return nil
	}
	if len([]rune(content)) > MaxMessageLength {
		c.errMsg = ErrMsgTooLong
		return nil
	}

	msg := model.NewUserMessage(content, c.currentID)
	c.messages = append(c.messages, msg)
	c.loading = true
	c.errMsg = ""
	c.lastAttempt = content

	return &PendingSend{
		Message:              msg,
		IssuedConversationID: c.currentID,
		Content:              content,
	}
}

// CompleteSend reconciles a successful round-trip: the provisional message
// becomes delivered, the assistant reply is appended, a brand-new
// conversation adopts the server-assigned id, and the merged conversation
// is persisted. A response for a conversation the user has since navigated
// away from is discarded.
func (c *Controller) CompleteSend(pending *PendingSend, resp *gateway.ChatResponse) {
	c.loading = false
	if pending == nil || resp == nil {
		return
	}

	// Stale response: the live conversation changed while the request was
	// in flight.
	if c.currentID != pending.IssuedConversationID {
		return
	}

	if msg := c.findMessage(pending.Message.ID); msg != nil {
		msg.MarkDelivered(resp.ConversationID)
	}

	// Guard by remote message id so a replayed response can never append
	// the assistant reply twice.
	if c.findMessage(resp.MessageID) == nil {
		reply := model.NewAIMessage(resp.MessageID, resp.Response, resp.ConversationID)
		reply.ToolCalls = toolCalls(resp.ToolCalls)
		c.messages = append(c.messages, reply)
	}

	if c.currentID == "" {
		c.currentID = resp.ConversationID
	}

	c.errMsg = ""
	c.persist(resp.ConversationID)
}

// FailSend marks the provisional message failed and raises the session
// error banner. The failed message stays in the timeline so the user can
// see what did not go through and retry it.
func (c *Controller) FailSend(pending *PendingSend, err error) {
	c.loading = false
	if pending == nil {
		return
	}

	if msg := c.findMessage(pending.Message.ID); msg != nil {
		msg.MarkFailed()
	}
	c.errMsg = errorMessage(err)
}

// Send runs the full optimistic send cycle synchronously.
func (c *Controller) Send(ctx context.Context, content string) {
	pending := c.BeginSend(content)
	if pending == nil {
		return
	}

	req := gateway.NewChatRequest(pending.Content, pending.IssuedConversationID)
	resp, err := c.gw.SendMessage(ctx, c.identity.UserID, req)
	if err != nil {
		c.FailSend(pending, err)
		return
	}
	c.CompleteSend(pending, resp)
}

// Retry resubmits the most recently attempted message verbatim. Each retry
// creates a new provisional message; nothing is deduplicated.
func (c *Controller) Retry() *PendingSend {
	if c.lastAttempt == "" {
		return nil
	}
	return c.BeginSend(c.lastAttempt)
}

// LastAttempt returns the content of the most recent send attempt.
func (c *Controller) LastAttempt() string {
	return c.lastAttempt
}

// =============================================================================
// RECONCILE AND SAVE
// =============================================================================

// persist writes the live timeline through to the store as the single
// authoritative copy of the conversation.
func (c *Controller) persist(conversationID string) {
	conv, err := c.store.Load(conversationID)
	if err != nil {
		conv = model.NewConversationWithID(conversationID, c.identity.UserID)
	}

	// Rebuild the record from the reconciled timeline. AddMessage stamps
	// ownership, derives the title from the first message, and advances
	// UpdatedAt.
	rebuilt := model.NewConversationWithID(conversationID, c.identity.UserID)
	rebuilt.CreatedAt = conv.CreatedAt
	rebuilt.Title = conv.Title
	for _, msg := range c.messages {
		msgCopy := *msg
		rebuilt.AddMessage(&msgCopy)
	}
	rebuilt.UpdatedAt = time.Now()

	c.store.Save(rebuilt)
	c.store.SetCurrentID(conversationID)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// findMessage returns the timeline message with the given id, or nil.
func (c *Controller) findMessage(id string) *model.ChatMessage {
	for _, msg := range c.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// toolCalls converts gateway tool-call results to the domain type.
func toolCalls(calls []gateway.ToolCallResult) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]model.ToolCall, len(calls))
	for i, call := range calls {
		out[i] = model.ToolCall{
			ToolName:   call.ToolName,
			Parameters: call.Parameters,
			Result:     call.Result,
		}
	}
	return out
}

// errorMessage maps a gateway failure onto its banner wording.
func errorMessage(err error) string {
	switch gateway.Classify(err) {
	case gateway.KindAuth:
		return ErrMsgAuth
	case gateway.KindNetwork:
		return ErrMsgNetwork
	case gateway.KindHTTP:
		var httpErr *gateway.HTTPError
		if errors.As(err, &httpErr) {
			return fmt.Sprintf("Request failed (HTTP %d). Please try again.", httpErr.Status)
		}
		return ErrMsgGeneric
	default:
		return ErrMsgGeneric
	}
}
