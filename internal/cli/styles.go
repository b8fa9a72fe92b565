// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - styles shared by the line commands.
//
// Colors are disabled for piped output and when NO_COLOR is set.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/proskill-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Sky)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(16)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// HumanStyle labels the user's turns in the REPL
	HumanStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	// BotStyle labels the bot's turns in the REPL
	BotStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Violet)
)

// RenderSeparator renders a horizontal rule of width w (default 60).
func RenderSeparator(w int) string {
	if w <= 0 {
		w = 60
	}
	return DimStyle.Render(strings.Repeat("-", w))
}

// RenderField renders an aligned "label value" row.
func RenderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderError renders an error line with the [X] indicator.
func RenderError(msg string) string {
	return ErrorStyle.Render(styles.StatusIndicators.Error) + " " + msg
}

// RenderSuccess renders a success line with the [OK] indicator.
func RenderSuccess(msg string) string {
	return SuccessStyle.Render(styles.StatusIndicators.Success) + " " + msg
}

// RenderWarning renders a warning line with the [!] indicator.
func RenderWarning(msg string) string {
	return WarningStyle.Render(styles.StatusIndicators.Warning) + " " + msg
}
