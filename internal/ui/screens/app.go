// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/guard"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/ui/render"
	"github.com/jeranaias/proskill-tui/internal/ui/styles"
)

// Deps are the collaborators of the TUI.
type Deps struct {
	Env     *app.Env
	Theme   *styles.Theme
	Start   guard.Route
	Version string
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Model is the root bubbletea model. It owns navigation and hands every
// other message to the visible screen.
type Model struct {
	ctx      context.Context
	env      *app.Env
	log      *zap.Logger
	theme    *styles.Theme
	keys     KeyMap
	help     help.Model
	renderer *render.Renderer
	version  string

	start guard.Route
	loc   guard.Location
	last  guard.Decision

	login    *loginScreen
	register *registerScreen
	teams    *teamsScreen
	chats    map[model.Kind]*chatScreen
	teamID   int

	toast         toast
	authCh        chan *model.User
	unsubscribe   func()
	width, height int
}

// New builds the root model. Close releases it.
func New(ctx context.Context, d Deps) *Model {
	theme := d.Theme
	if theme == nil {
		theme = styles.NewTheme(d.Env.Config.UI.Theme)
	}
	keys := DefaultKeyMap()
	s := d.Env.Session

	m := &Model{
		ctx:      ctx,
		env:      d.Env,
		log:      d.Env.Log.Named("tui"),
		theme:    theme,
		keys:     keys,
		help:     help.New(),
		renderer: render.New(d.Env.Config.UI, rendererStyle(theme)),
		version:  d.Version,
		start:    d.Start,
		login:    newLoginScreen(ctx, s, theme, keys),
		register: newRegisterScreen(ctx, s, theme, keys),
		teams:    newTeamsScreen(ctx, s, d.Env.Client, theme, keys),
		chats:    make(map[model.Kind]*chatScreen),
		authCh:   make(chan *model.User, 8),
		width:    80,
		height:   24,
	}
	settings := chatSettingsFrom(d.Env.Config)
	for _, kind := range []model.Kind{model.KindAssessment, model.KindTraining} {
		m.chats[kind] = newChatScreen(ctx, kind, d.Env.Controller(kind), d.Env.Client,
			settings, theme, keys, m.renderer)
	}
	m.teamID, _ = s.Teams.ID()

	ch := m.authCh
	m.unsubscribe = s.Auth.Subscribe(func(u *model.User) {
		select {
		case ch <- u:
		default:
		}
	})
	return m
}

func rendererStyle(t *styles.Theme) string {
	if t.IsDark {
		return render.StyleDark
	}
	return render.StyleLight
}

func chatSettingsFrom(cfg *config.Config) chatSettings {
	return chatSettings{
		assistantID: cfg.Chat.AssistantID,
		errorReply:  cfg.Chat.ErrorReply,
		newTitle:    cfg.Chat.AssessmentTitle,
	}
}

// Close unsubscribes from the session and closes the controllers.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	for _, c := range m.chats {
		c.ctrl.Close()
	}
}

// Location returns the visible location.
func (m *Model) Location() guard.Location {
	return m.loc
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForAuth(), navigate(guard.At(m.start)))
}

// waitForAuth turns the next Auth notification into a message.
func (m *Model) waitForAuth() tea.Cmd {
	ctx, ch := m.ctx, m.authCh
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case u := <-ch:
			return authChangedMsg{user: u}
		}
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

// goTo resolves loc through the guard and enters the resulting screen.
func (m *Model) goTo(loc guard.Location) tea.Cmd {
	if loc.Route == guard.RouteHome {
		loc = guard.At(guard.RouteChat)
	}
	d := m.env.Guard.Resolve(loc)
	if d.Redirected {
		m.last = d
	}
	m.loc = d.Target
	m.log.Debug("navigate", zap.String("to", d.Target.Route.String()), zap.Bool("redirected", d.Redirected))

	switch d.Target.Route {
	case guard.RouteLogin:
		return m.login.enter()
	case guard.RouteRegister:
		return m.register.enter()
	case guard.RouteTeams, guard.RouteTeam:
		return m.teams.enter()
	case guard.RouteTraining:
		return m.chats[model.KindTraining].enter()
	default:
		return m.chats[model.KindAssessment].enter()
	}
}

// afterAuth rebinds the controllers and lands where the login flow goes.
func (m *Model) afterAuth() tea.Cmd {
	m.resetChats()
	return m.goTo(guard.AfterLogin(m.last))
}

// resetChats gives both chat screens fresh controllers for the current
// session and team.
func (m *Model) resetChats() {
	m.teamID, _ = m.env.Session.Teams.ID()
	for kind, c := range m.chats {
		c.replace(m.env.Controller(kind))
	}
}

func (m *Model) logout() tea.Cmd {
	ctx, st := m.ctx, m.env.Session
	return func() tea.Msg {
		return logoutDoneMsg{err: st.Logout(ctx)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case navigateMsg:
		return m, m.goTo(msg.to)

	case authChangedMsg:
		cmds := []tea.Cmd{m.waitForAuth()}
		if msg.user == nil && m.loc.Route.Protected() {
			cmds = append(cmds, m.goTo(m.loc))
		}
		return m, tea.Batch(cmds...)

	case loginDoneMsg:
		cmd := m.login.update(msg)
		if msg.err != nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.afterAuth())

	case registerDoneMsg:
		cmd := m.register.update(msg)
		if msg.err != nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.afterAuth(), notify("Welcome to ProSkillify"))

	case logoutDoneMsg:
		m.resetChats()
		cmds := []tea.Cmd{m.goTo(guard.At(guard.RouteLogin))}
		if msg.err != nil {
			cmds = append(cmds, notifyErr("Logout did not clear all credentials: "+msg.err.Error()))
		} else {
			cmds = append(cmds, notify("Logged out"))
		}
		return m, tea.Batch(cmds...)

	case teamSwitchedMsg:
		cmd := m.teams.update(msg)
		if msg.err != nil {
			return m, tea.Batch(cmd, notifyErr("Could not switch team: "+api.Message(msg.err)))
		}
		m.resetChats()
		return m, tea.Batch(cmd, notify("Switched to "+msg.team.Name), m.goTo(guard.At(guard.RouteChat)))

	case teamCreatedMsg:
		cmd := m.teams.update(msg)
		if id, _ := m.env.Session.Teams.ID(); id != m.teamID {
			m.resetChats()
		}
		return m, cmd

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, notify("Configuration reloaded")

	case toastMsg:
		return m, m.toast.show(msg)

	case clearToastMsg:
		m.toast.clear(msg.id)
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		for _, c := range m.chats {
			cmds = append(cmds, c.update(msg))
		}
		return m, tea.Batch(cmds...)

	case chatInitDoneMsg:
		return m, m.chats[msg.kind].update(msg)
	case sendDoneMsg:
		return m, m.chats[msg.kind].update(msg)
	case selectDoneMsg:
		return m, m.chats[msg.kind].update(msg)
	case conversationCreatedMsg:
		return m, m.chats[msg.kind].update(msg)
	case renameDoneMsg:
		return m, m.chats[msg.kind].update(msg)
	case deleteDoneMsg:
		return m, m.chats[msg.kind].update(msg)
	case charactersLoadedMsg, trainDoneMsg:
		return m, m.chats[model.KindTraining].update(msg)
	}

	return m, m.updateCurrent(msg)
}

// handleGlobalKey handles keys that work on every screen.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit, true
	}
	if !m.env.Session.Auth.IsAuthenticated() {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Teams):
		return m.goTo(guard.At(guard.RouteTeams)), true
	case key.Matches(msg, m.keys.Chat):
		return m.goTo(guard.At(guard.RouteChat)), true
	case key.Matches(msg, m.keys.Training):
		return m.goTo(guard.At(guard.RouteTraining)), true
	case key.Matches(msg, m.keys.Logout):
		return m.logout(), true
	}
	return nil, false
}

func (m *Model) updateCurrent(msg tea.Msg) tea.Cmd {
	switch m.loc.Route {
	case guard.RouteLogin:
		return m.login.update(msg)
	case guard.RouteRegister:
		return m.register.update(msg)
	case guard.RouteTeams, guard.RouteTeam:
		return m.teams.update(msg)
	case guard.RouteTraining:
		return m.chats[model.KindTraining].update(msg)
	default:
		return m.chats[model.KindAssessment].update(msg)
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	if mode, err := styles.ParseMode(cfg.UI.Theme); err == nil && mode != m.theme.Mode {
		*m.theme = *styles.NewTheme(mode)
	}
	m.renderer.Configure(cfg.UI, rendererStyle(m.theme))
	settings := chatSettingsFrom(cfg)
	for _, c := range m.chats {
		c.errorReply, c.newTitle = settings.errorReply, settings.newTitle
		c.assistantID = settings.assistantID
		c.cache = make(map[string]string)
		c.refresh()
	}
	m.log.Info("configuration reloaded")
}

// layout gives the body everything except the header and the two footer
// lines.
func (m *Model) layout() {
	body := max(m.height-3, 5)
	for _, c := range m.chats {
		c.setSize(m.width, body)
	}
	m.teams.width = m.width
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	body := m.bodyView()
	bodyHeight := max(m.height-3, 5)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.toast.view(m.theme),
		m.statusView(),
	)
}

func (m *Model) bodyView() string {
	bodyHeight := max(m.height-3, 5)
	center := func(s string) string {
		return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, s)
	}
	switch m.loc.Route {
	case guard.RouteLogin:
		return center(m.login.view())
	case guard.RouteRegister:
		return center(m.register.view())
	case guard.RouteTeams, guard.RouteTeam:
		return center(m.teams.view())
	case guard.RouteTraining:
		return m.chats[model.KindTraining].view()
	default:
		return m.chats[model.KindAssessment].view()
	}
}

func (m *Model) headerView() string {
	parts := []string{m.theme.HeaderBrand.Render("ProSkillify")}
	switch m.loc.Route {
	case guard.RouteChat:
		parts = append(parts, m.chats[model.KindAssessment].title())
	case guard.RouteTraining:
		parts = append(parts, m.chats[model.KindTraining].title())
	case guard.RouteTeams, guard.RouteTeam:
		parts = append(parts, "Teams")
	}
	if u, ok := m.env.Session.Auth.User(); ok {
		meta := u.Name
		if t := m.env.Session.Teams.Team(); t != nil {
			meta = fmt.Sprintf("%s @ %s", u.Name, t.Name)
		}
		parts = append(parts, m.theme.HeaderMeta.Render(meta))
	}
	return m.theme.Header.Width(m.width).Render(strings.Join(parts, "  |  "))
}

func (m *Model) statusView() string {
	var bindings []key.Binding
	switch m.loc.Route {
	case guard.RouteLogin, guard.RouteRegister:
		bindings = []key.Binding{m.keys.Tab, m.keys.Submit, m.keys.Quit}
	case guard.RouteTeams, guard.RouteTeam:
		bindings = []key.Binding{m.keys.Submit, m.keys.New, m.keys.Chat, m.keys.Training, m.keys.Quit}
	case guard.RouteTraining:
		bindings = []key.Binding{m.keys.Tab, m.keys.New, m.keys.Rename, m.keys.Delete, m.keys.Train, m.keys.Teams, m.keys.Chat, m.keys.Logout, m.keys.Quit}
	default:
		bindings = []key.Binding{m.keys.Tab, m.keys.New, m.keys.Rename, m.keys.Delete, m.keys.Teams, m.keys.Training, m.keys.Logout, m.keys.Quit}
	}
	return m.theme.StatusBar.Width(m.width).Render(m.help.ShortHelpView(bindings))
}
