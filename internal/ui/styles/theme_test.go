// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	// Verify styles are initialized by rendering a test string
	if theme.App.Render("test") == "" {
		t.Error("NewTheme() should initialize App style")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme()

	// An uninitialized style would just return the input unchanged,
	// an incorrectly built one could render empty
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"ToolCallBox", theme.ToolCallBox},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"ErrorBanner", theme.ErrorBanner},
		{"Sidebar", theme.Sidebar},
		{"SessionItemSelected", theme.SessionItemSelected},
		{"WelcomeBox", theme.WelcomeBox},
	}

	for _, s := range styles {
		rendered := s.style.Render("test")
		if rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestNewThemeForVariant(t *testing.T) {
	for _, variant := range []string{"dark", "light", "unknown"} {
		theme := NewThemeForVariant(variant)
		if theme == nil {
			t.Fatalf("NewThemeForVariant(%q) returned nil", variant)
		}
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize not applied: %dx%d", theme.Width, theme.Height)
	}
}
