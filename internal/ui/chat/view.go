// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/todochat-tui/internal/model"
)

// sidebarWidth is the fixed width of the history sidebar.
const sidebarWidth = 32

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header (1 line) + [error banner] + messages (viewport) + input + status.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	body := m.viewport.View()
	if m.showHistory {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}

	sections := []string{header}
	if banner := m.renderErrorBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, body, input, status)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := "todochat"
	subtitle := "new conversation"
	if id := m.ctrl.CurrentConversationID(); id != "" {
		for _, meta := range m.ctrl.Metadata() {
			if meta.ID == id {
				subtitle = meta.Title
				break
			}
		}
	}

	left := m.theme.HeaderTitle.Render(title)
	right := m.theme.HeaderSubtitle.Render(truncateDisplay(subtitle, m.width/2))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return m.theme.Header.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// renderMessages renders the full timeline for the viewport.
func (m Model) renderMessages() string {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		return m.renderWelcome()
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.ctrl.IsLoading() {
		b.WriteString("\n")
		b.WriteString(m.theme.Spinner.Render(m.spinner.View()))
		b.WriteString(" ")
		b.WriteString(m.theme.ThinkingText.Render("Assistant is thinking..."))
		b.WriteString("\n")
	}

	return b.String()
}

// renderMessage renders a single message bubble with its meta line.
func (m Model) renderMessage(msg *model.ChatMessage) string {
	bubbleWidth := m.contentWidth() * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	meta := m.theme.SenderLabel.Render(msg.Sender.DisplayName()) +
		" " +
		m.theme.Timestamp.Render(formatTimestamp(msg.Timestamp))

	var bubble string
	if msg.Sender == model.SenderUser {
		meta += " " + m.renderStatusMarker(msg.Status)
		bubble = m.theme.UserBubble.MaxWidth(bubbleWidth).Render(wrapText(msg.Content, bubbleWidth-6))
	} else {
		content := msg.Content
		if m.markdown && m.renderer != nil {
			if rendered, err := m.renderer.Render(content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		bubble = m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(content)
	}

	parts := []string{meta, bubble}
	if len(msg.ToolCalls) > 0 {
		parts = append(parts, m.renderToolCalls(msg.ToolCalls))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if msg.Sender == model.SenderUser {
		return lipgloss.PlaceHorizontal(m.contentWidth(), lipgloss.Right, block)
	}
	return block
}

// renderStatusMarker renders the delivery state of a user message.
func (m Model) renderStatusMarker(status model.Status) string {
	switch status {
	case model.StatusSending:
		return m.theme.StatusSending.Render("sending")
	case model.StatusDelivered:
		return m.theme.StatusDelivered.Render("✓")
	case model.StatusError:
		return m.theme.StatusError.Render("✗ failed")
	default:
		return ""
	}
}

// renderToolCalls renders the actions the assistant took for a reply.
func (m Model) renderToolCalls(calls []model.ToolCall) string {
	var b strings.Builder
	for i, call := range calls {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.theme.ToolCallName.Render(call.ToolName))
		if summary := toolCallSummary(call); summary != "" {
			b.WriteString(" ")
			b.WriteString(summary)
		}
	}
	return m.theme.ToolCallBox.Render(b.String())
}

// renderWelcome renders the empty state for a fresh conversation.
func (m Model) renderWelcome() string {
	box := m.theme.WelcomeBox.Render(
		"todochat\n\n" +
			m.theme.WelcomeHint.Render("Ask the assistant to manage your todos.\nType a message and press Enter."),
	)
	return lipgloss.Place(m.contentWidth(), m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// HISTORY SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	entries := m.ctrl.Metadata()

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("History"))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(m.theme.SessionMeta.Render("No conversations yet"))
	}

	for i, meta := range entries {
		line := truncateDisplay(meta.Title, sidebarWidth-6)
		style := m.theme.SessionItem
		if i == m.historyIndex {
			style = m.theme.SessionItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
		b.WriteString(m.theme.SessionMeta.Render(
			"  " + truncateDisplay(meta.LastMessage, sidebarWidth-8) +
				" · " + formatTimestamp(meta.Timestamp)))
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 2).
		Height(m.viewport.Height).
		Render(b.String())
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	count := len([]rune(m.input.Value()))
	limit := m.input.CharLimit

	countStyle := m.theme.CharCount
	switch {
	case count >= limit:
		countStyle = m.theme.CharCountDanger
	case count >= limit*9/10:
		countStyle = m.theme.CharCountWarning
	}
	counter := countStyle.Render(fmt.Sprintf("%d/%d", count, limit))

	return m.theme.InputContainer.Width(m.width).Render(
		m.input.View() + "  " + counter,
	)
}

func (m Model) renderStatusBar() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "send"},
		{"C-n", "new"},
		{"C-h", "history"},
		{"C-r", "retry"},
		{"C-c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts,
			m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderErrorBanner() string {
	errMsg := m.ctrl.Err()
	if errMsg == "" {
		return ""
	}
	return m.theme.ErrorBanner.Width(m.width).Render("⚠ " + errMsg + "  (Esc to dismiss)")
}

// contentWidth is the width available to the message area.
func (m Model) contentWidth() int {
	if m.showHistory {
		return max(m.width-sidebarWidth, 20)
	}
	return max(m.width, 20)
}
