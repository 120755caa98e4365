// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the
// application for representing chat messages exchanged with the todo
// assistant, the conversations that own them, and the lightweight metadata
// projection used for list display.
//
// # Key Types
//
//   - ChatMessage: single message with sender, delivery status, and owner conversation
//   - Conversation: titled, ordered thread of messages owned by one user
//   - ConversationMetadata: derived read-only summary for the history sidebar
//   - Sender, Status: message enumerations
//
// # Usage
//
// Create a conversation and append messages:
//
//	conv := model.NewConversation("user-1")
//	msg := model.NewUserMessage("Add a task to buy milk", conv.ID)
//	conv.AddMessage(msg)
package model
