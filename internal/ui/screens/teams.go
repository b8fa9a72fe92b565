// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/session"
	"github.com/jeranaias/proskill-tui/internal/ui/styles"
	"github.com/jeranaias/proskill-tui/internal/util"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// TeamCreator is the client call behind the create form.
type TeamCreator interface {
	CreateTeam(ctx context.Context, name, description string) (*model.Team, error)
}

// teamsScreen lists memberships, switches the active team and creates
// new teams.
type teamsScreen struct {
	ctx      context.Context
	session  *session.State
	client   TeamCreator
	theme    *styles.Theme
	keys     KeyMap
	cursor   int
	creating bool
	form     *form
	busy     bool
	width    int
}

func newTeamsScreen(ctx context.Context, s *session.State, client TeamCreator, theme *styles.Theme, keys KeyMap) *teamsScreen {
	return &teamsScreen{
		ctx:     ctx,
		session: s,
		client:  client,
		theme:   theme,
		keys:    keys,
		form: newForm([]string{"Create", "Cancel"},
			newField("name", "Team name", "Sales East", false),
			newField("description", "Description", "optional", false),
		),
	}
}

func (s *teamsScreen) teams() []model.Team {
	u, ok := s.session.Auth.User()
	if !ok {
		return nil
	}
	return u.Teams
}

// enter puts the cursor on the active team.
func (s *teamsScreen) enter() tea.Cmd {
	s.creating = false
	s.cursor = 0
	if id, ok := s.session.Teams.ID(); ok {
		for i, t := range s.teams() {
			if t.ID == id {
				s.cursor = i
			}
		}
	}
	return nil
}

func (s *teamsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case teamCreatedMsg:
		s.busy = false
		if msg.err != nil {
			s.form.fail(msg.err, api.Message)
			return nil
		}
		s.creating = false
		s.enter()
		return notify(fmt.Sprintf("Created team %q", msg.team.Name))
	case teamSwitchedMsg:
		s.busy = false
		return nil
	case tea.KeyMsg:
		if s.creating {
			return s.updateForm(msg)
		}
		return s.updateList(msg)
	}
	if s.creating {
		return s.form.update(msg)
	}
	return nil
}

func (s *teamsScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	teams := s.teams()
	switch {
	case key.Matches(msg, s.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, s.keys.Down):
		if s.cursor < len(teams)-1 {
			s.cursor++
		}
	case key.Matches(msg, s.keys.New):
		s.creating = true
		s.form.reset()
		return s.form.setFocus(0)
	case key.Matches(msg, s.keys.Submit):
		if s.cursor < len(teams) && !s.busy {
			return s.use(teams[s.cursor].ID)
		}
	}
	return nil
}

func (s *teamsScreen) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Cancel):
		s.creating = false
		return nil
	case msg.Type == tea.KeyShiftTab:
		return s.form.prev()
	case key.Matches(msg, s.keys.Tab):
		return s.form.next()
	case key.Matches(msg, s.keys.Submit):
		if s.form.button() == 1 {
			s.creating = false
			return nil
		}
		return s.create()
	}
	return s.form.update(msg)
}

// use switches the active team.
func (s *teamsScreen) use(id int) tea.Cmd {
	s.busy = true
	ctx, st := s.ctx, s.session
	return func() tea.Msg {
		team, err := st.UseTeam(ctx, id)
		return teamSwitchedMsg{team: team, err: err}
	}
}

// create makes a team and refreshes the session so it shows up in the
// membership list.
func (s *teamsScreen) create() tea.Cmd {
	if s.busy {
		return nil
	}
	f, err := validate.Team{
		Name:        s.form.value("name"),
		Description: s.form.value("description"),
	}.Validate()
	if err != nil {
		s.form.fail(err, api.Message)
		return nil
	}
	s.form.fail(nil, nil)
	s.busy = true

	ctx, st, client := s.ctx, s.session, s.client
	return func() tea.Msg {
		team, err := client.CreateTeam(ctx, f.Name, f.Description)
		if err == nil && team == nil {
			err = fmt.Errorf("create team: not logged in")
		}
		if err != nil {
			return teamCreatedMsg{err: err}
		}
		if err := st.Refresh(ctx); err != nil {
			return teamCreatedMsg{err: err}
		}
		return teamCreatedMsg{team: team}
	}
}

func (s *teamsScreen) view() string {
	if s.creating {
		return s.form.view(s.theme, "New team")
	}

	var b strings.Builder
	b.WriteString(s.theme.FormTitle.Render("Teams") + "\n")
	teams := s.teams()
	if len(teams) == 0 {
		b.WriteString(s.theme.Muted.Render("You are not a member of any team yet.") + "\n")
	}
	active, _ := s.session.Teams.ID()
	width := max(s.width-12, 24)
	for i, t := range teams {
		marker := "  "
		if t.ID == active {
			marker = "* "
		}
		line := marker + t.Name
		if t.Description != "" {
			line += " - " + t.Description
		}
		line = util.Truncate(line, width)
		switch {
		case i == s.cursor:
			b.WriteString(s.theme.SidebarSelected.Render(line))
		case t.ID == active:
			b.WriteString(s.theme.SidebarActive.Render(line))
		default:
			b.WriteString(s.theme.SidebarItem.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + s.theme.FormHint.Render("enter: use team   C-n: new team"))
	return s.theme.Form.Render(b.String())
}
