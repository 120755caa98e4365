// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/todochat-tui/internal/model"
)

// =============================================================================
// TIMESTAMP TESTS
// =============================================================================

func TestFormatTimestampToday(t *testing.T) {
	now := time.Now()
	got := formatTimestamp(now)

	if got != now.Format("15:04") {
		t.Errorf("today should format as time only, got %q", got)
	}
}

func TestFormatTimestampThisWeek(t *testing.T) {
	ts := time.Now().Add(-3 * 24 * time.Hour)
	got := formatTimestamp(ts)

	if got != ts.Format("Mon 15:04") {
		t.Errorf("this week should include weekday, got %q", got)
	}
}

func TestFormatTimestampOlder(t *testing.T) {
	ts := time.Now().Add(-30 * 24 * time.Hour)
	got := formatTimestamp(ts)

	if got != ts.Format("Jan 2 15:04") {
		t.Errorf("older timestamps should include date, got %q", got)
	}
}

// =============================================================================
// TEXT UTILITY TESTS
// =============================================================================

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		check    func(t *testing.T, got string)
	}{
		{
			name:     "short line unchanged",
			input:    "hello",
			maxWidth: 10,
			check: func(t *testing.T, got string) {
				if got != "hello" {
					t.Errorf("expected unchanged, got %q", got)
				}
			},
		},
		{
			name:     "long line wraps at space",
			input:    "the quick brown fox jumps",
			maxWidth: 10,
			check: func(t *testing.T, got string) {
				for _, line := range strings.Split(got, "\n") {
					if len([]rune(line)) > 10 {
						t.Errorf("line exceeds width: %q", line)
					}
				}
			},
		},
		{
			name:     "existing breaks preserved",
			input:    "a\nb",
			maxWidth: 10,
			check: func(t *testing.T, got string) {
				if got != "a\nb" {
					t.Errorf("expected breaks preserved, got %q", got)
				}
			},
		},
		{
			name:     "zero width passthrough",
			input:    "anything at all",
			maxWidth: 0,
			check: func(t *testing.T, got string) {
				if got != "anything at all" {
					t.Errorf("expected passthrough, got %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, wrapText(tt.input, tt.maxWidth))
		})
	}
}

func TestTruncateDisplay(t *testing.T) {
	if got := truncateDisplay("short", 10); got != "short" {
		t.Errorf("short string should pass through, got %q", got)
	}

	got := truncateDisplay("a very long conversation title here", 10)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated string should end with ellipsis, got %q", got)
	}

	// Wide characters count as two cells
	wide := truncateDisplay("日本語のタイトル", 6)
	if wide == "日本語のタイトル" {
		t.Error("wide string should have been truncated")
	}

	if got := truncateDisplay("anything", 0); got != "" {
		t.Errorf("zero width should return empty, got %q", got)
	}
}

// =============================================================================
// TOOL CALL TESTS
// =============================================================================

func TestToolCallSummary(t *testing.T) {
	call := model.ToolCall{
		ToolName:   "create_todo",
		Parameters: map[string]any{"title": "buy milk", "priority": "high"},
	}

	got := toolCallSummary(call)
	if !strings.Contains(got, "priority=high") || !strings.Contains(got, "title=buy milk") {
		t.Errorf("summary missing parameters: %q", got)
	}
	// Sorted keys give deterministic output
	if !strings.HasPrefix(got, "(priority=") {
		t.Errorf("expected sorted parameter order, got %q", got)
	}
}

func TestToolCallSummaryEmpty(t *testing.T) {
	call := model.ToolCall{ToolName: "list_todos"}
	if got := toolCallSummary(call); got != "" {
		t.Errorf("no parameters should give empty summary, got %q", got)
	}
}
