// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/guard"
	"github.com/jeranaias/proskill-tui/internal/session"
	"github.com/jeranaias/proskill-tui/internal/ui/styles"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

const (
	registerButtonSubmit = iota
	registerButtonLogin
)

// registerScreen creates an account and logs straight into it.
type registerScreen struct {
	ctx     context.Context
	session *session.State
	theme   *styles.Theme
	keys    KeyMap
	form    *form
	busy    bool
}

func newRegisterScreen(ctx context.Context, s *session.State, theme *styles.Theme, keys KeyMap) *registerScreen {
	return &registerScreen{
		ctx:     ctx,
		session: s,
		theme:   theme,
		keys:    keys,
		form: newForm([]string{"Sign up", "Back to login"},
			newField("name", "Name", "Ada Lovelace", false),
			newField("email", "Email", "you@example.com", false),
			newField("password", "Password", "", true),
			newField("confirm_password", "Confirm password", "", true),
		),
	}
}

func (s *registerScreen) enter() tea.Cmd {
	s.form.reset()
	s.busy = false
	return s.form.setFocus(0)
}

func (s *registerScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyShiftTab:
			return s.form.prev()
		case key.Matches(msg, s.keys.Tab):
			return s.form.next()
		case key.Matches(msg, s.keys.Submit):
			switch s.form.button() {
			case registerButtonLogin:
				return navigate(guard.At(guard.RouteLogin))
			case registerButtonSubmit:
				return s.submit()
			}
			if s.form.focus == len(s.form.fields)-1 {
				return s.submit()
			}
			return s.form.next()
		}
	case registerDoneMsg:
		s.busy = false
		s.form.fail(msg.err, api.Message)
		return nil
	}
	return s.form.update(msg)
}

func (s *registerScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	f, err := validate.Register{
		Name:            s.form.value("name"),
		Email:           s.form.value("email"),
		Password:        s.form.value("password"),
		ConfirmPassword: s.form.value("confirm_password"),
	}.Validate()
	if err != nil {
		s.form.fail(err, api.Message)
		return nil
	}
	s.form.fail(nil, nil)
	s.busy = true

	ctx, st := s.ctx, s.session
	req := api.RegisterRequest{
		Name:            f.Name,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}
	return func() tea.Msg {
		return registerDoneMsg{err: st.RegisterAs(ctx, req)}
	}
}

func (s *registerScreen) view() string {
	var extra []string
	if s.busy {
		extra = append(extra, s.theme.Pending.Render("Creating account..."))
	}
	return s.form.view(s.theme, "Create a ProSkillify account", extra...)
}
