// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the todochat TUI.

This package defines the color palette and the Theme aggregate used throughout
the application. All colors use Lip Gloss AdaptiveColor for automatic
light/dark terminal detection.

# Color System (colors.go)

  - Purple - Primary accent for assistant messages and selections
  - Cyan - Brand color for info and user highlights
  - Emerald - Success states and delivered messages
  - Amber - Warnings and in-flight sends
  - Rose - Errors and failed sends

Message bubbles use semantic color tokens:

	UserBubbleBg      - Background for user messages
	UserBubbleFg      - Text color for user messages
	AssistantBubbleBg - Background for assistant messages
	AssistantBubbleFg - Text color for assistant messages

# Theme (theme.go)

Theme holds every lipgloss.Style the chat surface needs: header, message
bubbles, input area, status bar, history sidebar, and the empty state box.
Construct one with NewTheme at startup and share it across views.
*/
package styles
