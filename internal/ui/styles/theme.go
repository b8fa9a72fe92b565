// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// LAYOUT
	// ==========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	HumanLabel  lipgloss.Style
	HumanBubble lipgloss.Style
	BotLabel    lipgloss.Style
	BotBubble   lipgloss.Style
	ErrorBubble lipgloss.Style
	Pending     lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarFocused  lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarActive   lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	Form         lipgloss.Style
	FormTitle    lipgloss.Style
	FormLabel    lipgloss.Style
	FormFocused  lipgloss.Style
	FormError    lipgloss.Style
	FormHint     lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Modal        lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	StatusBar    lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastError   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Muted        lipgloss.Style
}

// ParseMode normalises a theme mode name.
func ParseMode(s string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeDark, ModeLight:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want auto, dark or light)", s)
	}
}

// NewTheme creates a theme. "auto" asks the terminal for its background;
// "dark" and "light" force the matching half of every adaptive colour.
func NewTheme(mode string) *Theme {
	m, err := ParseMode(mode)
	if err != nil {
		m = ModeAuto
	}

	isDark := true
	switch m {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         m,
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Transcript
	t.HumanLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky)

	t.HumanBubble = lipgloss.NewStyle().
		Foreground(HumanBubbleFg).
		Background(HumanBubbleBg).
		Padding(0, 1).
		MarginLeft(4)

	t.BotLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(1)

	t.Pending = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky).
		Padding(0, 1)

	t.TableCell = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SidebarFocused = t.Sidebar.
		BorderForeground(Sky)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SidebarSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.SidebarActive = lipgloss.NewStyle().
		Foreground(Sky)

	// Forms
	t.Form = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Sky).
		MarginBottom(1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormFocused = lipgloss.NewStyle().
		Foreground(Sky).
		Bold(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay)

	t.ButtonActive = t.Button.
		Foreground(Sky).
		BorderForeground(Sky).
		Bold(true)

	t.Modal = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Sky).
		Padding(1, 2)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Sky).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// Accent returns the accent colour for a conversation track.
func (t *Theme) Accent(training bool) lipgloss.AdaptiveColor {
	if training {
		return Violet
	}
	return Sky
}
