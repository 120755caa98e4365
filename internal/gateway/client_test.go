// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"response": "Added \"buy milk\" to your list.",
			"conversation_id": "conv-1",
			"message_id": "msg-9",
			"tool_calls": [{"tool_name": "create_todo", "parameters": {"title": "buy milk"}, "result": {"id": 1}}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok-123")

	resp, err := client.SendMessage(context.Background(), "u1", NewChatRequest("Add a task to buy milk", ""))
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/u1/chat", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "Add a task to buy milk", gotBody["message"])
	// A new conversation is signalled with an explicit null.
	assert.Contains(t, gotBody, "conversation_id")
	assert.Nil(t, gotBody["conversation_id"])

	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.Equal(t, "msg-9", resp.MessageID)
	assert.Equal(t, `Added "buy milk" to your list.`, resp.Response)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "create_todo", resp.ToolCalls[0].ToolName)
}

func TestSendMessage_ExistingConversationID(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"response": "ok", "conversation_id": "conv-7", "message_id": "m1", "tool_calls": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok")

	_, err := client.SendMessage(context.Background(), "u1", NewChatRequest("hi", "conv-7"))
	require.NoError(t, err)
	assert.Equal(t, "conv-7", gotBody["conversation_id"])
}

func TestSendMessage_NoTokenFailsFast(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.SendMessage(context.Background(), "u1", NewChatRequest("hi", ""))

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, KindAuth, Classify(err))
	assert.Zero(t, requests, "no network call should be attempted without a token")
}

func TestSendMessage_AuthStatusCodes(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient(server.URL)
		client.SetToken("expired")

		_, err := client.SendMessage(context.Background(), "u1", NewChatRequest("hi", ""))
		assert.ErrorIs(t, err, ErrAuthFailed, "status %d", status)
		assert.Equal(t, KindAuth, Classify(err))
		server.Close()
	}
}

func TestSendMessage_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok")

	_, err := client.SendMessage(context.Background(), "u1", NewChatRequest("hi", ""))
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Equal(t, KindHTTP, Classify(err))
}

func TestSendMessage_NetworkError(t *testing.T) {
	// A closed server yields a connection failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok")

	_, err := client.SendMessage(context.Background(), "u1", NewChatRequest("hi", ""))
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, Classify(err))
}

func TestSendMessage_MalformedResponseIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("tok")

	_, err := client.SendMessage(context.Background(), "u1", NewChatRequest("hi", ""))
	require.Error(t, err)
	assert.Equal(t, KindGeneric, Classify(err))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	client = NewClient("http://example.com/")
	assert.Equal(t, "http://example.com", client.BaseURL(), "trailing slash is trimmed")
}

func TestTokenLifecycle(t *testing.T) {
	client := NewClient("")
	assert.False(t, client.HasToken())

	client.SetToken("  tok  ")
	assert.True(t, client.HasToken())

	client.ClearToken()
	assert.False(t, client.HasToken())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindGeneric, Classify(nil))
	assert.Equal(t, KindAuth, Classify(ErrNotAuthenticated))
	assert.Equal(t, KindAuth, Classify(ErrAuthFailed))
	assert.Equal(t, KindNetwork, Classify(ErrNetwork))
	assert.Equal(t, KindHTTP, Classify(&HTTPError{Status: 502}))
	assert.Equal(t, KindGeneric, Classify(assert.AnError))
}
