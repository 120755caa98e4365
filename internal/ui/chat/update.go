// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChatRepliedMsg:
		return m.handleReply(msg)

	case ChatFailedMsg:
		return m.handleFailure(msg)

	case DismissErrorMsg:
		m.ctrl.ClearError()
		return m.resync()

	case ConfigReloadedMsg:
		m.markdown = msg.Markdown && m.renderer != nil
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd
	}

	// Everything else goes to the focused input
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize recalculates component dimensions.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// header + input area + status bar
	chromeHeight := 4
	if m.ctrl.Err() != "" {
		chromeHeight++
	}

	contentWidth := msg.Width
	if m.showHistory {
		contentWidth -= sidebarWidth
	}

	m.viewport.Width = contentWidth
	m.viewport.Height = max(msg.Height-chromeHeight, 1)
	m.input.Width = msg.Width - 6

	m.refreshViewport()
	return m, nil
}

// handleKey dispatches key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if m.showHistory {
		return m.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Cancel):
		m.ctrl.ClearError()
		return m.resync()

	case key.Matches(msg, m.keyMap.Retry):
		pending := m.ctrl.Retry()
		if pending == nil {
			m.refreshViewport()
			return m, nil
		}
		m.refreshViewport()
		return m, tea.Batch(
			SendMessageCmd(m.ctrl.Gateway(), m.ctrl.Identity().UserID, pending),
			m.spinner.Tick,
		)

	case key.Matches(msg, m.keyMap.NewChat):
		m.ctrl.NewConversation()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.History):
		m.showHistory = true
		m.historyIndex = 0
		return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})

	case key.Matches(msg, m.keyMap.Delete):
		m.ctrl.DeleteConversation(m.ctrl.CurrentConversationID())
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleHistoryKey navigates the history sidebar.
func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.ctrl.Metadata()

	switch {
	case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.History):
		m.showHistory = false
		return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})

	case key.Matches(msg, m.keyMap.Up):
		if m.historyIndex > 0 {
			m.historyIndex--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.historyIndex < len(entries)-1 {
			m.historyIndex++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if m.historyIndex < len(entries) {
			m.ctrl.DeleteConversation(entries[m.historyIndex].ID)
			if m.historyIndex > 0 {
				m.historyIndex--
			}
		}
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.historyIndex < len(entries) {
			m.ctrl.SelectConversation(entries[m.historyIndex].ID)
		}
		m.showHistory = false
		return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}

	return m, nil
}

// submit stages the typed message and launches the gateway call.
func (m Model) submit() (tea.Model, tea.Cmd) {
	pending := m.ctrl.BeginSend(m.input.Value())
	if pending == nil {
		// Rejected locally: validation error is already on the banner
		return m.resync()
	}
	m.refreshViewport()

	m.input.Reset()
	return m, tea.Batch(
		SendMessageCmd(m.ctrl.Gateway(), m.ctrl.Identity().UserID, pending),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// handleReply reconciles a successful assistant reply.
func (m Model) handleReply(msg ChatRepliedMsg) (tea.Model, tea.Cmd) {
	m.ctrl.CompleteSend(msg.Pending, msg.Response)
	return m.resync()
}

// handleFailure records a failed send.
func (m Model) handleFailure(msg ChatFailedMsg) (tea.Model, tea.Cmd) {
	m.ctrl.FailSend(msg.Pending, msg.Err)
	return m.resync()
}

// resync recomputes layout after state changes that add or remove chrome,
// the error banner in particular.
func (m Model) resync() (tea.Model, tea.Cmd) {
	return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
}
