// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/todochat-tui/internal/model"
)

// =============================================================================
// TIMESTAMP FORMATTING
// =============================================================================

// formatTimestamp formats a message timestamp for display.
// It uses smart formatting based on how recent the timestamp is:
//   - Today: just time (e.g., "15:04")
//   - This week: day and time (e.g., "Mon 15:04")
//   - Older: date and time (e.g., "Jan 2 15:04")
func formatTimestamp(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}

	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon 15:04")
	}

	return t.Format("Jan 2 15:04")
}

// =============================================================================
// TEXT UTILITIES
// =============================================================================

// wrapText wraps text to a maximum width, handling Unicode correctly.
// It preserves existing line breaks and breaks long lines at spaces.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		runes := []rune(line)

		for len(runes) > maxWidth {
			breakPoint := maxWidth
			for j := maxWidth; j > 0; j-- {
				if runes[j] == ' ' {
					breakPoint = j
					break
				}
			}

			result.WriteString(string(runes[:breakPoint]))
			result.WriteString("\n")
			runes = []rune(strings.TrimLeft(string(runes[breakPoint:]), " "))
		}
		result.WriteString(string(runes))
	}

	return result.String()
}

// truncateDisplay shortens s to fit maxWidth terminal cells, appending an
// ellipsis when truncated. Uses go-runewidth so wide characters count
// correctly.
func truncateDisplay(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// =============================================================================
// TOOL CALL FORMATTING
// =============================================================================

// toolCallSummary renders a one-line parameter summary for a tool call.
func toolCallSummary(call model.ToolCall) string {
	if len(call.Parameters) == 0 {
		return ""
	}

	keys := make([]string, 0, len(call.Parameters))
	for k := range call.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, call.Parameters[k]))
	}

	return truncateDisplay("("+strings.Join(parts, ", ")+")", 60)
}
