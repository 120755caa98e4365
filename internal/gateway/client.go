// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Configuration constants for the chat endpoint.
const (
	// DefaultBaseURL is used when no API base is configured.
	DefaultBaseURL = "http://localhost:8000"

	// chatPathPrefix is the versioned API prefix for the chat endpoint.
	chatPathPrefix = "/api/v1"

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// sharedHTTPClient is the pooled client for all chat requests. It carries no
// client-side timeout: a chat round-trip may legitimately take a long time,
// so deadlines are the caller's via context.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Error variables for the gateway error taxonomy.
var (
	// ErrNotAuthenticated indicates no bearer token is set. Raised before
	// any network call is attempted.
	ErrNotAuthenticated = errors.New("no authentication token set")

	// ErrAuthFailed indicates the endpoint rejected the token (401/403).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNetwork indicates a transport-level failure (DNS, connection).
	ErrNetwork = errors.New("network failure")
)

// HTTPError is returned for any non-2xx response other than 401/403.
type HTTPError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("chat endpoint returned HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("chat endpoint returned HTTP %d", e.Status)
}

// ErrorKind buckets gateway failures for UI presentation.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindAuth
	KindNetwork
	KindHTTP
)

// Classify maps an error returned by this package onto its taxonomy kind.
// The mapping is deterministic so the UI can pick wording per kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindGeneric
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrAuthFailed):
		return KindAuth
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return KindHTTP
		}
		return KindGeneric
	}
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// ChatRequest is the request body for the chat endpoint. A nil
// ConversationID is serialized as null and asks the server to create a new
// conversation.
type ChatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
}

// NewChatRequest builds a request; an empty conversationID signals a new
// conversation.
func NewChatRequest(message, conversationID string) ChatRequest {
	req := ChatRequest{Message: message}
	if conversationID != "" {
		req.ConversationID = &conversationID
	}
	return req
}

// ToolCallResult is one tool invocation reported with a reply.
type ToolCallResult struct {
	ToolName   string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
	Result     map[string]any `json:"result"`
}

// ChatResponse is the successful response body from the chat endpoint.
type ChatResponse struct {
	Response       string           `json:"response"`
	ConversationID string           `json:"conversation_id"`
	MessageID      string           `json:"message_id"`
	ToolCalls      []ToolCallResult `json:"tool_calls"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the remote todo-assistant chat endpoint.
//
// The client holds the bearer token it is handed and nothing process-global;
// construct one per identity.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL. An empty base
// falls back to the local development default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// SetToken sets the bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.token = ""
}

// HasToken reports whether a bearer token is set.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

// SendMessage posts one message to POST {base}/api/v1/{userID}/chat and
// returns the assistant's reply.
//
// A missing token fails fast with ErrNotAuthenticated before any network
// activity. HTTP 401/403 map to ErrAuthFailed, other non-2xx statuses to
// *HTTPError, transport failures to ErrNetwork; anything else is wrapped
// unclassified.
func (c *Client) SendMessage(ctx context.Context, userID string, req ChatRequest) (*ChatResponse, error) {
	if !c.HasToken() {
		return nil, ErrNotAuthenticated
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	endpoint := c.baseURL + chatPathPrefix + "/" + url.PathEscape(userID) + "/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	// Status and duration only; bodies and tokens are never logged.
	log.Printf("gateway: POST %s -> %d (%v)", httpReq.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}
	return &chatResp, nil
}

// classifyStatus converts a non-2xx response into its taxonomy error.
func classifyStatus(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (HTTP %d)", ErrAuthFailed, statusCode)
	default:
		return &HTTPError{
			Status: statusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
}

// readResponse reads the body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
