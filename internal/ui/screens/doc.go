// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screens implements the bubbletea TUI: login, register, the
// assessment and training chats, and team management.
//
// The root Model routes every navigation through the guard, so protected
// screens are never shown without a session. Screens run blocking calls in
// tea commands and report back with typed messages carrying the
// conversation kind they belong to.
package screens
