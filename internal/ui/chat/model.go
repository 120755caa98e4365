// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/todochat-tui/internal/session"
	"github.com/jeranaias/todochat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation state
	ctrl *session.Controller

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// History sidebar
	showHistory  bool
	historyIndex int

	// Markdown rendering of assistant replies
	markdown bool
	renderer *glamour.TermRenderer
}

// New creates a new chat model backed by the given session controller.
func New(ctrl *session.Controller, theme *styles.Theme, markdown bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = session.MaxMessageLength
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	m := Model{
		theme:    theme,
		ctrl:     ctrl,
		viewport: vp,
		input:    ti,
		spinner:  sp,
		keyMap:   DefaultKeyMap(),
		markdown: markdown,
	}

	if markdown {
		// Renderer failure degrades to plain text
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(72),
		)
		if err == nil {
			m.renderer = renderer
		}
	}

	m.refreshViewport()
	return m
}

// Controller exposes the underlying session controller.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// View renders the chat interface.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// VIEWPORT SYNC
// =============================================================================

// refreshViewport rebuilds the viewport content from the live timeline and
// pins the scroll position to the bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}
