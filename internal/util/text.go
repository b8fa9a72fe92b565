// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// UNICODE: Width-aware helpers so CJK titles do not break table columns.

// Truncate shortens s to at most maxWidth terminal columns, appending "..."
// when something was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to exactly width columns, truncating if needed.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillRight(s, width)
}

// Width returns the display width of s.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// NormalizeInput trims surrounding whitespace and converts s to NFC so that
// composed and decomposed forms of the same text compare equal.
func NormalizeInput(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FirstLine returns the first line of s, without the trailing newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
