// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Sky - Primary accent, headings, focused borders
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#0EA5E9"}

// Cyan - Scores, secondary highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#06B6D4"}

// Violet - Training track accent
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Emerald - Success states
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, pending states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F1117"}

// SurfaceDim - Headers, status bar, sidebar
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1A1D27"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#2A2E3B"}

// SelectionBg - Highlighted list row
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BAE6FD", Dark: "#0C4A6E"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A1A1AA"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}

// =============================================================================
// MESSAGE COLORS
// =============================================================================

var HumanBubbleBg = lipgloss.AdaptiveColor{Light: "#E0F2FE", Dark: "#0C4A6E"}
var HumanBubbleFg = lipgloss.AdaptiveColor{Light: "#075985", Dark: "#E0F2FE"}
var BotBubbleBorder = lipgloss.AdaptiveColor{Light: "#BAE6FD", Dark: "#334155"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds ASCII markers shown next to coloured status text.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are plain ASCII so they survive any terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success line.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning line.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info line.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Sky).
		Render(StatusIndicators.Info + " " + message)
}
