// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat view component for the todochat TUI.

The package is organized as a standard Bubble Tea model:

  - model.go    - Model struct, constructor, Init
  - update.go   - Update and key handling
  - view.go     - All rendering (header, bubbles, sidebar, input, status)
  - messages.go - Bubble Tea message types
  - commands.go - tea.Cmd creators for gateway calls
  - keys.go     - Key bindings
  - utils.go    - Formatting helpers

Sending a message is split across the update loop: the submit handler stages
an optimistic message through the session controller and returns a command
that performs the network call off the UI goroutine. The command resolves to
ChatRepliedMsg or ChatFailedMsg, which hand the result back to the controller
on the update loop.
*/
package chat
