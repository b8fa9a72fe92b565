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
	loginButtonSubmit = iota
	loginButtonRegister
)

// loginScreen collects email, password and the remember-me choice.
type loginScreen struct {
	ctx      context.Context
	session  *session.State
	theme    *styles.Theme
	keys     KeyMap
	form     *form
	remember bool
	busy     bool
}

func newLoginScreen(ctx context.Context, s *session.State, theme *styles.Theme, keys KeyMap) *loginScreen {
	return &loginScreen{
		ctx:     ctx,
		session: s,
		theme:   theme,
		keys:    keys,
		form: newForm([]string{"Log in", "Create an account"},
			newField("email", "Email", "you@example.com", false),
			newField("password", "Password", "", true),
		),
		remember: true,
	}
}

// enter resets the form each time the screen is shown.
func (s *loginScreen) enter() tea.Cmd {
	s.form.reset()
	s.busy = false
	return s.form.setFocus(0)
}

func (s *loginScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyShiftTab:
			return s.form.prev()
		case key.Matches(msg, s.keys.Tab), key.Matches(msg, s.keys.Down) && s.form.button() >= 0:
			return s.form.next()
		case key.Matches(msg, s.keys.Toggle) && s.form.button() >= 0:
			s.remember = !s.remember
			return nil
		case key.Matches(msg, s.keys.Submit):
			switch s.form.button() {
			case loginButtonRegister:
				return navigate(guard.At(guard.RouteRegister))
			case loginButtonSubmit:
				return s.submit()
			}
			// Enter on a field moves on, or submits from the last one.
			if s.form.focus == len(s.form.fields)-1 {
				return s.submit()
			}
			return s.form.next()
		}
	case loginDoneMsg:
		s.busy = false
		s.form.fail(msg.err, api.Message)
		return nil
	}
	return s.form.update(msg)
}

// submit validates the form and starts the login.
func (s *loginScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	f, err := validate.Login{
		Email:    s.form.value("email"),
		Password: s.form.value("password"),
	}.Validate()
	if err != nil {
		s.form.fail(err, api.Message)
		return nil
	}
	s.form.fail(nil, nil)
	s.busy = true

	ctx, st, remember := s.ctx, s.session, s.remember
	return func() tea.Msg {
		return loginDoneMsg{err: st.LoginAs(ctx, f.Email, f.Password, remember)}
	}
}

func (s *loginScreen) view() string {
	box := "[ ]"
	if s.remember {
		box = "[x]"
	}
	remember := s.theme.FormLabel.Render(box + " Remember me")
	hint := s.theme.FormHint.Render("space toggles remember me while a button is focused")
	if s.busy {
		hint = s.theme.Pending.Render("Logging in...")
	}
	return s.form.view(s.theme, "Log in to ProSkillify", remember, hint)
}

func navigate(loc guard.Location) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: loc} }
}
