// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the proskill packages.
//
// # Key Functions
//
// Text:
//   - Truncate, PadRight, Width: terminal-width aware layout helpers
//   - NormalizeInput: trim + NFC normalisation for form and chat input
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.Truncate(conv.Title, 32)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
