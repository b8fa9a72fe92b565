// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation drives one chat screen: the transcript, the active
// conversation and the team's conversation history.
//
// A Controller serves a single screen for its whole lifetime. The TUI
// calls it from tea.Cmd goroutines and the REPL calls it inline; all
// state is guarded by one mutex and every accessor returns copies.
//
// # Sending
//
// Send appends the human message before any network call. If no
// conversation is active one is created first, titled with the message
// text, and reused by every later send. Whatever goes wrong afterwards,
// the transcript gets a bot message with the configured error reply and
// Send itself returns nil. Only ErrBusy and ErrClosed are returned.
//
// # Lifetime
//
// Close cancels in-flight calls. A result that arrives after Close, or
// after the active conversation changed under it, is dropped.
package conversation
