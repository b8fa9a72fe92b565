// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import "github.com/charmbracelet/bubbles/key"

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap holds the global and per-screen bindings.
type KeyMap struct {
	Tab      key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Up       key.Binding
	Down     key.Binding
	New      key.Binding
	Rename   key.Binding
	Delete   key.Binding
	Teams    key.Binding
	Chat     key.Binding
	Training key.Binding
	Train    key.Binding
	Logout   key.Binding
	Toggle   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "focus"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		Rename: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete"),
		),
		Teams: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "teams"),
		),
		Chat: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "assessment"),
		),
		Training: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "training"),
		),
		Train: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "train model"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "logout"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.New, k.Teams, k.Chat, k.Training, k.Logout, k.Quit}
}

// FullHelp returns bindings grouped by area.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Submit, k.Cancel, k.Up, k.Down},
		{k.New, k.Rename, k.Delete, k.Train},
		{k.Teams, k.Chat, k.Training, k.Logout, k.Quit},
	}
}
