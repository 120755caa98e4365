// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/todochat-tui/internal/gateway"
	"github.com/jeranaias/todochat-tui/internal/model"
	"github.com/jeranaias/todochat-tui/internal/session"
	"github.com/jeranaias/todochat-tui/internal/storage"
	"github.com/jeranaias/todochat-tui/internal/ui/styles"
)

// newTestModel builds a chat model wired to a stub backend.
func newTestModel(t *testing.T, handler http.HandlerFunc) (Model, *session.Controller) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	gw := gateway.NewClient(srv.URL)
	ctrl := session.NewController(store, gw, session.Identity{UserID: "u1", Token: "tok"})

	m := New(ctrl, styles.NewTheme(), false)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model), ctrl
}

func okHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":        "Done! Added to your list.",
			"conversation_id": "conv-1",
			"message_id":      "msg-1",
		})
	}
}

func TestSubmitStagesOptimisticMessage(t *testing.T) {
	m, ctrl := newTestModel(t, okHandler(t))

	m.input.SetValue("Add a task to buy milk")
	updated, cmd := m.submit()
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("submit should return a send command")
	}
	if !ctrl.IsLoading() {
		t.Error("controller should be loading after submit")
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}

	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].Status != model.StatusSending {
		t.Fatalf("expected one sending message, got %+v", msgs)
	}
}

func TestSubmitEmptyRejectedLocally(t *testing.T) {
	m, ctrl := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty submit should never reach the network")
	})

	m.input.SetValue("   ")
	updated, _ := m.submit()
	m = updated.(Model)

	if ctrl.IsLoading() {
		t.Error("rejected submit should not start loading")
	}
	if len(ctrl.Messages()) != 0 {
		t.Error("rejected submit should not stage a message")
	}
	if ctrl.Err() == "" {
		t.Error("rejected submit should surface a validation error")
	}
}

func TestSendCommandDeliversReply(t *testing.T) {
	m, ctrl := newTestModel(t, okHandler(t))

	m.input.SetValue("Add a task to buy milk")
	updated, _ := m.submit()
	m = updated.(Model)

	pending := ctrl.LastAttempt()
	if pending == "" {
		t.Fatal("expected a pending attempt")
	}

	// Run the gateway call the way the Bubble Tea runtime would
	sendCmd := SendMessageCmd(ctrl.Gateway(), "u1", &session.PendingSend{
		Message:              ctrl.Messages()[0],
		IssuedConversationID: ctrl.CurrentConversationID(),
		Content:              "Add a task to buy milk",
	})
	msg := sendCmd()

	replied, ok := msg.(ChatRepliedMsg)
	if !ok {
		t.Fatalf("expected ChatRepliedMsg, got %T", msg)
	}

	updated, _ = m.Update(replied)
	m = updated.(Model)

	if ctrl.IsLoading() {
		t.Error("loading should clear after reply")
	}
	msgs := ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected user + assistant messages, got %d", len(msgs))
	}
	if msgs[0].Status != model.StatusDelivered {
		t.Errorf("user message should be delivered, got %s", msgs[0].Status)
	}
	if msgs[1].Content != "Done! Added to your list." {
		t.Errorf("unexpected assistant content: %q", msgs[1].Content)
	}
}

func TestSendCommandFailureMarksError(t *testing.T) {
	m, ctrl := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	m.input.SetValue("hello")
	updated, _ := m.submit()
	m = updated.(Model)

	sendCmd := SendMessageCmd(ctrl.Gateway(), "u1", &session.PendingSend{
		Message:              ctrl.Messages()[0],
		IssuedConversationID: ctrl.CurrentConversationID(),
		Content:              "hello",
	})
	msg := sendCmd()

	failed, ok := msg.(ChatFailedMsg)
	if !ok {
		t.Fatalf("expected ChatFailedMsg, got %T", msg)
	}

	updated, _ = m.Update(failed)
	m = updated.(Model)

	if ctrl.Messages()[0].Status != model.StatusError {
		t.Error("user message should be marked failed")
	}
	if ctrl.Err() == "" {
		t.Error("failure should surface an error banner")
	}
}

func TestHistoryNavigation(t *testing.T) {
	calls := 0
	m, ctrl := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":        "ok",
			"conversation_id": fmt.Sprintf("conv-%d", calls),
			"message_id":      fmt.Sprintf("msg-%d", calls),
		})
	})

	// Seed two conversations through the normal flow
	for _, text := range []string{"first", "second"} {
		ctrl.NewConversation()
		ctrl.Send(context.Background(), text)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	m = updated.(Model)
	if !m.showHistory {
		t.Fatal("C-h should open the history sidebar")
	}

	entries := ctrl.Metadata()
	if len(entries) < 1 {
		t.Fatal("expected history entries")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.showHistory {
		t.Error("selecting a conversation should close the sidebar")
	}
	if ctrl.CurrentConversationID() != entries[0].ID {
		t.Error("selection should switch the active conversation")
	}
}

func TestViewRendersWithoutSize(t *testing.T) {
	store, err := storage.NewStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	gw := gateway.NewClient("http://localhost:0")
	ctrl := session.NewController(store, gw, session.Identity{UserID: "u1", Token: "tok"})

	m := New(ctrl, styles.NewTheme(), false)
	if m.View() != "Loading..." {
		t.Error("unsized model should render the loading placeholder")
	}
}
