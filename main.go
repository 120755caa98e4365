// todochat - a terminal chat client for the todo assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/todochat-tui/internal/config"
	"github.com/jeranaias/todochat-tui/internal/gateway"
	"github.com/jeranaias/todochat-tui/internal/session"
	"github.com/jeranaias/todochat-tui/internal/storage"
	"github.com/jeranaias/todochat-tui/internal/ui/chat"
	"github.com/jeranaias/todochat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("todochat %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "todochat requires an interactive terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	identity := session.Identity{
		UserID: os.Getenv("TODOCHAT_USER_ID"),
		Token:  os.Getenv("TODOCHAT_API_TOKEN"),
	}
	if identity.UserID == "" {
		fmt.Fprintln(os.Stderr, "TODOCHAT_USER_ID is not set.")
		fmt.Fprintln(os.Stderr, "Export TODOCHAT_USER_ID and TODOCHAT_API_TOKEN to chat with the assistant.")
		os.Exit(1)
	}

	var store *storage.Store
	if cfg.Storage.Dir != "" {
		store, err = storage.NewStoreWithDir(cfg.Storage.Dir)
	} else {
		store, err = storage.NewStore()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening conversation store: %v\n", err)
		os.Exit(1)
	}

	gw := gateway.NewClient(cfg.API.BaseURL)
	ctrl := session.NewController(store, gw, identity)
	theme := styles.NewThemeForVariant(cfg.UI.Theme)

	m := chat.New(ctrl, theme, cfg.UI.Markdown)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Pick up config edits while running
	watcher, err := config.NewWatcher(func(updated *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Markdown: updated.UI.Markdown})
	})
	if err == nil {
		if werr := watcher.Watch(); werr == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running todochat: %v\n", err)
		os.Exit(1)
	}
}
