// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the live conversation state for the chat surface.
//
// The Controller holds the in-memory message timeline, the current
// conversation pointer, and the transient loading/error state for one
// identity. It drives optimistic sends: the user's message appears in the
// timeline immediately with status "sending", the remote round-trip runs,
// and the result is reconciled back (delivered + assistant reply, or
// failed + banner error).
//
// The controller is single-threaded by contract: every mutating method
// must be called from the owning event loop. The network call itself is
// split out so a Bubble Tea command can run it off-loop:
//
//	pending := ctrl.BeginSend(text)           // optimistic append, on loop
//	resp, err := gw.SendMessage(ctx, ...)     // in the command goroutine
//	ctrl.CompleteSend(pending, resp)          // back on loop
//	ctrl.FailSend(pending, err)               // or this
//
// Send composes all three for synchronous callers.
//
// The controller is the only writer of conversation records: it owns the
// reconcile-and-save step after each successful exchange, and the gateway
// never touches the store.
package session
