// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/proskill-tui/internal/ui/styles"
)

const (
	toastDuration      = 4 * time.Second
	errorToastDuration = 8 * time.Second
)

// toast is a single auto-dismissing notice shown above the status bar.
type toast struct {
	id    int
	text  string
	isErr bool
}

func notify(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text} }
}

func notifyErr(text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text, isErr: true} }
}

// show replaces the current toast and schedules its removal.
func (t *toast) show(msg toastMsg) tea.Cmd {
	t.id++
	t.text, t.isErr = msg.text, msg.isErr
	id := t.id
	d := toastDuration
	if msg.isErr {
		d = errorToastDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return clearToastMsg{id: id} })
}

// clear drops the toast if it is still the one the timer was set for.
func (t *toast) clear(id int) {
	if id == t.id {
		t.text = ""
	}
}

func (t *toast) view(theme *styles.Theme) string {
	if t.text == "" {
		return ""
	}
	if t.isErr {
		return theme.ToastError.Render(styles.StatusIndicators.Error + " " + t.text)
	}
	return theme.ToastInfo.Render(styles.StatusIndicators.Success + " " + t.text)
}
