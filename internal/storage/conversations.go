// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/todochat-tui/internal/model"
	"github.com/jeranaias/todochat-tui/internal/util"
)

const (
	// conversationsFile holds the JSON-serialized conversation list.
	conversationsFile = "conversations.json"

	// currentIDFile holds the bare current-conversation id string.
	currentIDFile = "current_conversation"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound is returned when a conversation doesn't exist.
// Use errors.Is(err, ErrConversationNotFound) to check for this error.
var ErrConversationNotFound = &StoreError{Message: "conversation not found"}

// ErrNotOwned is returned when a conversation exists but belongs to a
// different user.
var ErrNotOwned = &StoreError{Message: "conversation owned by another user"}

// StoreError represents a conversation-store error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store persists conversations under a base directory.
type Store struct {
	// BaseDir is the directory holding the two storage files.
	// Default: ~/.todochat/
	BaseDir string
}

// NewStore creates a store rooted at the user's home directory.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStoreWithDir(filepath.Join(homeDir, ".todochat"))
}

// NewStoreWithDir creates a store with a custom base directory.
func NewStoreWithDir(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{BaseDir: baseDir}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save upserts a conversation by id: an existing entry is replaced in
// place, a new one is appended. Records owned by other users are preserved
// untouched. Persistence failures are logged and swallowed.
func (s *Store) Save(conv *model.Conversation) {
	if conv == nil || conv.ID == "" {
		return
	}

	conversations := s.loadAll()
	replaced := false
	for i, existing := range conversations {
		if existing.ID == conv.ID {
			conversations[i] = conv
			replaced = true
			break
		}
	}
	if !replaced {
		conversations = append(conversations, conv)
	}

	s.writeAll(conversations)
}

// writeAll serializes the full conversation list atomically.
func (s *Store) writeAll(conversations []*model.Conversation) {
	data, err := json.MarshalIndent(conversations, "", "  ")
	if err != nil {
		log.Printf("storage: failed to marshal conversations: %v", err)
		return
	}
	if err := util.AtomicWriteFile(s.listPath(), data, 0o644); err != nil {
		log.Printf("storage: failed to write conversations: %v", err)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// LoadAll returns every stored conversation. Order is storage order and not
// meaningful. A missing, corrupt, or unreadable backing file degrades to an
// empty list.
func (s *Store) LoadAll() []*model.Conversation {
	return s.loadAll()
}

// loadAll reads the conversation list, failing soft on every error path.
func (s *Store) loadAll() []*model.Conversation {
	data, err := os.ReadFile(s.listPath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("storage: failed to read conversations: %v", err)
		}
		return []*model.Conversation{}
	}

	var conversations []*model.Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		log.Printf("storage: corrupt conversation list, treating as empty: %v", err)
		return []*model.Conversation{}
	}
	return conversations
}

// Load retrieves a conversation by id.
func (s *Store) Load(id string) (*model.Conversation, error) {
	for _, conv := range s.loadAll() {
		if conv.ID == id {
			return conv, nil
		}
	}
	return nil, ErrConversationNotFound
}

// LoadOwned retrieves a conversation by id, enforcing ownership. A
// conversation belonging to another user yields ErrNotOwned.
func (s *Store) LoadOwned(id, userID string) (*model.Conversation, error) {
	conv, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	if !conv.OwnedBy(userID) {
		return nil, ErrNotOwned
	}
	return conv, nil
}

// MostRecent returns the conversation with the maximum UpdatedAt, or
// ErrConversationNotFound on an empty store. Ties break to the first
// encountered entry, deterministically.
func (s *Store) MostRecent() (*model.Conversation, error) {
	return mostRecent(s.loadAll())
}

// MostRecentFor returns the most recently updated conversation owned by
// userID.
func (s *Store) MostRecentFor(userID string) (*model.Conversation, error) {
	var owned []*model.Conversation
	for _, conv := range s.loadAll() {
		if conv.OwnedBy(userID) {
			owned = append(owned, conv)
		}
	}
	return mostRecent(owned)
}

func mostRecent(conversations []*model.Conversation) (*model.Conversation, error) {
	if len(conversations) == 0 {
		return nil, ErrConversationNotFound
	}
	latest := conversations[0]
	for _, conv := range conversations[1:] {
		if conv.UpdatedAt.After(latest.UpdatedAt) {
			latest = conv
		}
	}
	return latest, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a conversation by id. Deleting an absent id is a no-op.
func (s *Store) Delete(id string) {
	conversations := s.loadAll()
	kept := conversations[:0]
	found := false
	for _, conv := range conversations {
		if conv.ID == id {
			found = true
			continue
		}
		kept = append(kept, conv)
	}
	if !found {
		return
	}
	s.writeAll(kept)

	// Keep the pointer invariant: it must never reference a deleted entry.
	if s.CurrentID() == id {
		s.ClearCurrentID()
	}
}

// =============================================================================
// METADATA PROJECTION
// =============================================================================

// Metadata maps every stored conversation to its list-view projection. The
// projection is recomputed from the full set on every call; it is never
// cached or incrementally patched.
func (s *Store) Metadata() []model.ConversationMetadata {
	conversations := s.loadAll()
	metas := make([]model.ConversationMetadata, 0, len(conversations))
	for _, conv := range conversations {
		metas = append(metas, conv.Metadata())
	}
	return metas
}

// MetadataFor returns the projection filtered to conversations owned by
// userID. This is the partition boundary list callers must use.
func (s *Store) MetadataFor(userID string) []model.ConversationMetadata {
	metas := make([]model.ConversationMetadata, 0)
	for _, meta := range s.Metadata() {
		if meta.UserID == userID {
			metas = append(metas, meta)
		}
	}
	return metas
}

// =============================================================================
// CURRENT CONVERSATION POINTER
// =============================================================================

// SetCurrentID records id as the current conversation. The id must
// reference a stored conversation; an unknown id is rejected so the pointer
// can never dangle.
func (s *Store) SetCurrentID(id string) error {
	if _, err := s.Load(id); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(s.currentPath(), []byte(id), 0o644); err != nil {
		log.Printf("storage: failed to write current conversation id: %v", err)
	}
	return nil
}

// CurrentID returns the current conversation id, or "" if unset.
func (s *Store) CurrentID() string {
	data, err := os.ReadFile(s.currentPath())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("storage: failed to read current conversation id: %v", err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ClearCurrentID removes the current conversation pointer.
func (s *Store) ClearCurrentID() {
	if err := os.Remove(s.currentPath()); err != nil && !os.IsNotExist(err) {
		log.Printf("storage: failed to clear current conversation id: %v", err)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (s *Store) listPath() string {
	return filepath.Join(s.BaseDir, conversationsFile)
}

func (s *Store) currentPath() string {
	return filepath.Join(s.BaseDir, currentIDFile)
}
