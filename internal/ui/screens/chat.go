// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/conversation"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/ui/render"
	"github.com/jeranaias/proskill-tui/internal/ui/styles"
	"github.com/jeranaias/proskill-tui/internal/util"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// Trainer is the client calls only the training screen makes.
type Trainer interface {
	ListCharacters(ctx context.Context) ([]model.Character, error)
	TrainModel(ctx context.Context, assistantID int) (*api.TrainResponse, error)
}

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNew
	modalRename
	modalDelete
	modalCharacter
)

const (
	sidebarWidth    = 30
	minSidebarWidth = 72 // below this terminal width the sidebar is hidden
)

// chatScreen is the assessment or training conversation screen.
type chatScreen struct {
	ctx         context.Context
	kind        model.Kind
	ctrl        *conversation.Controller
	trainer     Trainer
	assistantID int
	errorReply  string
	newTitle    string

	theme    *styles.Theme
	keys     KeyMap
	renderer *render.Renderer

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	focus   focusArea
	cursor  int
	waiting bool // an init or send command is outstanding
	started bool

	modal      modalKind
	modalInput textinput.Model
	target     int
	characters []model.Character
	charCursor int

	cache         map[string]string
	width, height int
}

func newChatScreen(ctx context.Context, kind model.Kind, ctrl *conversation.Controller, trainer Trainer,
	chat chatSettings, theme *styles.Theme, keys KeyMap, r *render.Renderer) *chatScreen {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Type a message and press enter"
	in.CharLimit = 4000
	in.Focus()

	mi := textinput.New()
	mi.Prompt = "> "
	mi.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	return &chatScreen{
		ctx:         ctx,
		kind:        kind,
		ctrl:        ctrl,
		trainer:     trainer,
		assistantID: chat.assistantID,
		errorReply:  chat.errorReply,
		newTitle:    chat.newTitle,
		theme:       theme,
		keys:        keys,
		renderer:    r,
		viewport:    viewport.New(80, 20),
		input:       in,
		modalInput:  mi,
		spinner:     sp,
		cache:       make(map[string]string),
	}
}

// chatSettings are the config values a chat screen reads.
type chatSettings struct {
	assistantID int
	errorReply  string
	newTitle    string
}

// replace swaps in a controller for a new session or team. The old one is
// closed so its in-flight results are dropped.
func (s *chatScreen) replace(ctrl *conversation.Controller) {
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	s.ctrl = ctrl
	s.started, s.waiting = false, false
	s.cursor, s.modal = 0, modalNone
	s.cache = make(map[string]string)
	s.input.Reset()
	s.refresh()
}

func (s *chatScreen) title() string {
	if s.kind == model.KindTraining {
		return "Training"
	}
	return "Assessment"
}

// =============================================================================
// COMMANDS
// =============================================================================

// enter initializes the controller the first time the screen is shown.
func (s *chatScreen) enter() tea.Cmd {
	s.setFocus(focusInput)
	if s.started {
		s.refresh()
		return textinput.Blink
	}
	s.started, s.waiting = true, true
	return tea.Batch(s.initialize(), s.spinner.Tick, textinput.Blink)
}

func (s *chatScreen) initialize() tea.Cmd {
	ctx, ctrl, kind := s.ctx, s.ctrl, s.kind
	return func() tea.Msg {
		return chatInitDoneMsg{kind: kind, err: ctrl.Initialize(ctx)}
	}
}

// send posts the input line. The human message shows up as soon as the
// controller appends it.
func (s *chatScreen) send() tea.Cmd {
	text := s.input.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.ctrl.Busy() {
		return notifyErr("Wait for the current reply")
	}
	s.input.Reset()
	s.waiting = true

	ctx, ctrl, kind := s.ctx, s.ctrl, s.kind
	return tea.Batch(func() tea.Msg {
		return sendDoneMsg{kind: kind, err: ctrl.Send(ctx, text)}
	}, s.spinner.Tick)
}

func (s *chatScreen) selectConversation(id int) tea.Cmd {
	ctx, ctrl, kind := s.ctx, s.ctrl, s.kind
	return func() tea.Msg {
		return selectDoneMsg{kind: kind, id: id, err: ctrl.Select(ctx, id)}
	}
}

func (s *chatScreen) newConversation(title string, partnerID int) tea.Cmd {
	ctx, ctrl, kind := s.ctx, s.ctrl, s.kind
	return func() tea.Msg {
		conv, err := ctrl.NewConversation(ctx, title, partnerID)
		return conversationCreatedMsg{kind: kind, conv: conv, err: err}
	}
}

func (s *chatScreen) rename(id int, title string) tea.Cmd {
	ctx, ctrl, kind := s.ctx, s.ctrl, s.kind
	return func() tea.Msg {
		return renameDoneMsg{kind: kind, err: ctrl.Rename(ctx, id, title)}
	}
}

func (s *chatScreen) remove(id int) tea.Cmd {
	ctx, ctrl, kind := s.ctx, s.ctrl, s.kind
	return func() tea.Msg {
		return deleteDoneMsg{kind: kind, err: ctrl.Delete(ctx, id)}
	}
}

func (s *chatScreen) loadCharacters() tea.Cmd {
	ctx, tr := s.ctx, s.trainer
	return func() tea.Msg {
		chars, err := tr.ListCharacters(ctx)
		return charactersLoadedMsg{chars: chars, err: err}
	}
}

func (s *chatScreen) train() tea.Cmd {
	ctx, tr, id := s.ctx, s.trainer, s.assistantID
	return func() tea.Msg {
		resp, err := tr.TrainModel(ctx, id)
		return trainDoneMsg{resp: resp, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (s *chatScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.waiting && !s.ctrl.Busy() {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		s.refresh()
		return cmd

	case chatInitDoneMsg:
		s.waiting = false
		s.refresh()
		switch {
		case errors.Is(msg.err, conversation.ErrNoTeam):
			return notifyErr("Join or create a team first (C-t)")
		case msg.err != nil:
			return notifyErr("Could not start the conversation: " + api.Message(msg.err))
		}
		return nil

	case sendDoneMsg:
		s.waiting = false
		s.refresh()
		if msg.err != nil && !errors.Is(msg.err, conversation.ErrClosed) {
			return notifyErr(msg.err.Error())
		}
		return nil

	case selectDoneMsg:
		s.refresh()
		if msg.err != nil {
			return notifyErr("Could not open conversation: " + api.Message(msg.err))
		}
		s.setFocus(focusInput)
		return nil

	case conversationCreatedMsg:
		s.refresh()
		if msg.err != nil {
			if errors.Is(msg.err, conversation.ErrNoTeam) {
				return notifyErr("Join or create a team first (C-t)")
			}
			return notifyErr("Could not create conversation: " + api.Message(msg.err))
		}
		s.cursor = max(0, model.IndexConversation(s.ctrl.Conversations(), msg.conv.ID))
		s.setFocus(focusInput)
		return notify(fmt.Sprintf("Started %q", msg.conv.DisplayTitle()))

	case renameDoneMsg:
		s.refresh()
		if msg.err != nil {
			return notifyErr("Rename failed: " + api.Message(msg.err))
		}
		return notify("Renamed")

	case deleteDoneMsg:
		s.refresh()
		if n := len(s.ctrl.Conversations()); s.cursor >= n {
			s.cursor = max(0, n-1)
		}
		if msg.err != nil {
			return notifyErr("Delete failed: " + api.Message(msg.err))
		}
		return notify("Deleted")

	case charactersLoadedMsg:
		if msg.err != nil {
			s.modal = modalNone
			return notifyErr("Could not load characters: " + api.Message(msg.err))
		}
		s.characters, s.charCursor = msg.chars, 0
		if len(s.characters) == 0 {
			s.modal = modalNone
			return notifyErr("No trainer characters available")
		}
		s.modal = modalCharacter
		return nil

	case trainDoneMsg:
		if msg.err != nil {
			return notifyErr("Training failed: " + api.Message(msg.err))
		}
		if msg.resp == nil {
			return nil
		}
		return notify(fmt.Sprintf("Model trained on %d chunks", msg.resp.NumberChunks))

	case tea.KeyMsg:
		if s.modal != modalNone {
			return s.updateModal(msg)
		}
		return s.updateKeys(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return cmd
	}

	if s.modal == modalNew || s.modal == modalRename {
		var cmd tea.Cmd
		s.modalInput, cmd = s.modalInput.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *chatScreen) updateKeys(msg tea.KeyMsg) tea.Cmd {
	convs := s.ctrl.Conversations()
	switch {
	case key.Matches(msg, s.keys.Tab):
		if s.focus == focusInput {
			s.setFocus(focusSidebar)
		} else {
			s.setFocus(focusInput)
		}
		return nil

	case key.Matches(msg, s.keys.New):
		if s.kind == model.KindTraining {
			return s.loadCharacters()
		}
		return s.openInput(modalNew, 0, s.newTitle)

	case key.Matches(msg, s.keys.Rename):
		if id, conv, ok := s.targetConversation(convs); ok {
			return s.openInput(modalRename, id, conv.Title)
		}
		return nil

	case key.Matches(msg, s.keys.Delete):
		if id, _, ok := s.targetConversation(convs); ok {
			s.modal, s.target = modalDelete, id
		}
		return nil

	case key.Matches(msg, s.keys.Train) && s.kind == model.KindTraining:
		return tea.Batch(notify("Training model..."), s.train())

	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return cmd
	}

	if s.focus == focusSidebar {
		switch {
		case key.Matches(msg, s.keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keys.Down):
			if s.cursor < len(convs)-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keys.Submit):
			if s.cursor < len(convs) {
				return s.selectConversation(convs[s.cursor].ID)
			}
		}
		return nil
	}

	if key.Matches(msg, s.keys.Submit) {
		return s.send()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// targetConversation is the highlighted conversation when the sidebar has
// focus, else the active one.
func (s *chatScreen) targetConversation(convs []model.Conversation) (int, model.Conversation, bool) {
	if s.focus == focusSidebar && s.cursor < len(convs) {
		return convs[s.cursor].ID, convs[s.cursor], true
	}
	id, ok := s.ctrl.ConversationID()
	if !ok {
		return 0, model.Conversation{}, false
	}
	if i := model.IndexConversation(convs, id); i >= 0 {
		return id, convs[i], true
	}
	return id, model.Conversation{ID: id}, true
}

func (s *chatScreen) openInput(kind modalKind, target int, value string) tea.Cmd {
	s.modal, s.target = kind, target
	s.modalInput.SetValue(value)
	s.modalInput.CursorEnd()
	s.input.Blur()
	return s.modalInput.Focus()
}

func (s *chatScreen) closeModal() tea.Cmd {
	s.modal = modalNone
	s.modalInput.Blur()
	s.setFocus(s.focus)
	return nil
}

func (s *chatScreen) updateModal(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, s.keys.Cancel) {
		return s.closeModal()
	}

	switch s.modal {
	case modalNew, modalRename:
		if !key.Matches(msg, s.keys.Submit) {
			var cmd tea.Cmd
			s.modalInput, cmd = s.modalInput.Update(msg)
			return cmd
		}
		title, err := validate.Title(s.modalInput.Value())
		if err != nil {
			return notifyErr("Title must not be empty")
		}
		kind, target := s.modal, s.target
		s.closeModal()
		if kind == modalNew {
			return s.newConversation(title, 0)
		}
		return s.rename(target, title)

	case modalDelete:
		switch msg.String() {
		case "y", "Y", "enter":
			target := s.target
			s.closeModal()
			return s.remove(target)
		case "n", "N":
			return s.closeModal()
		}

	case modalCharacter:
		switch {
		case key.Matches(msg, s.keys.Up):
			if s.charCursor > 0 {
				s.charCursor--
			}
		case key.Matches(msg, s.keys.Down):
			if s.charCursor < len(s.characters)-1 {
				s.charCursor++
			}
		case key.Matches(msg, s.keys.Submit):
			c := s.characters[s.charCursor]
			s.closeModal()
			return s.newConversation("Training with "+c.Name, c.ID)
		}
	}
	return nil
}

func (s *chatScreen) setFocus(f focusArea) {
	s.focus = f
	if f == focusInput && s.modal == modalNone {
		s.input.Focus()
	} else {
		s.input.Blur()
	}
}

// =============================================================================
// LAYOUT & VIEW
// =============================================================================

func (s *chatScreen) showSidebar() bool {
	return s.width >= minSidebarWidth
}

func (s *chatScreen) mainWidth() int {
	if s.showSidebar() {
		return s.width - sidebarWidth - 1
	}
	return s.width
}

func (s *chatScreen) setSize(w, h int) {
	if w != s.width {
		s.cache = make(map[string]string)
	}
	s.width, s.height = w, h
	s.viewport.Width = s.mainWidth()
	s.viewport.Height = max(h-3, 3)
	s.input.Width = max(s.mainWidth()-4, 10)
	s.refresh()
}

// refresh re-renders the transcript into the viewport, following the
// bottom when it was already there.
func (s *chatScreen) refresh() {
	if s.ctrl == nil {
		return
	}
	atBottom := s.viewport.AtBottom()
	s.viewport.SetContent(s.transcript())
	if atBottom || s.waiting {
		s.viewport.GotoBottom()
	}
}

func (s *chatScreen) transcript() string {
	msgs := s.ctrl.Messages()
	if len(msgs) == 0 {
		return s.theme.Muted.Render(s.emptyHint())
	}

	width := max(s.mainWidth()-2, 20)
	seen := make(map[string]string, len(msgs))
	parts := make([]string, 0, len(msgs)+1)
	for _, m := range msgs {
		k := m.LocalID
		out, ok := s.cache[k]
		if !ok || k == "" {
			out = s.renderMessage(m, width)
		}
		if k != "" {
			seen[k] = out
		}
		parts = append(parts, out)
	}
	s.cache = seen

	if s.ctrl.Busy() || s.waiting {
		parts = append(parts, s.spinner.View()+" "+s.theme.Pending.Render("Waiting for a reply..."))
	}
	return strings.Join(parts, "\n\n")
}

func (s *chatScreen) emptyHint() string {
	if s.kind == model.KindTraining {
		return "No conversation selected. Press C-n to start a training session with a character."
	}
	return "Send a message to start a new assessment, or pick one from the history."
}

func (s *chatScreen) renderMessage(m model.Message, width int) string {
	if m.IsHuman() {
		label := s.theme.HumanLabel.Render(m.Role.DisplayName())
		body := s.theme.HumanBubble.Width(max(width-6, 10)).Render(m.Content)
		return label + "\n" + body
	}

	name := m.Role.DisplayName()
	if s.kind == model.KindTraining {
		name = "Trainer"
	}
	label := s.theme.BotLabel.Render(name)
	if m.Content == s.errorReply && !m.HasPayload() {
		return label + "\n" + s.theme.ErrorBubble.Render(m.Content)
	}

	body := s.renderer.Markdown(m.Content, width-6)
	if table := render.Payload(m, width-6); table != "" {
		body += "\n\n" + s.theme.TableCell.Render(table)
	}
	return label + "\n" + s.theme.BotBubble.Render(body)
}

func (s *chatScreen) sidebarView() string {
	convs := s.ctrl.Conversations()
	active, hasActive := s.ctrl.ConversationID()

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("History"))
	b.WriteString("\n")
	if len(convs) == 0 {
		b.WriteString(s.theme.Muted.Render("no conversations"))
	}
	inner := sidebarWidth - 4
	rows := max(s.height-4, 1)
	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	for i := start; i < len(convs) && i < start+rows; i++ {
		c := convs[i]
		line := util.PadRight(c.DisplayTitle(), inner)
		switch {
		case s.focus == focusSidebar && i == s.cursor:
			line = s.theme.SidebarSelected.Render(line)
		case hasActive && c.ID == active:
			line = s.theme.SidebarActive.Render(line)
		default:
			line = s.theme.SidebarItem.Render(line)
		}
		b.WriteString(line + "\n")
	}

	style := s.theme.Sidebar
	if s.focus == focusSidebar {
		style = s.theme.SidebarFocused
	}
	return style.Width(sidebarWidth - 2).Height(max(s.height-2, 1)).Render(b.String())
}

func (s *chatScreen) modalView() string {
	switch s.modal {
	case modalNew:
		return s.theme.Modal.Render(s.theme.FormTitle.Render("New conversation") + "\n" +
			s.modalInput.View() + "\n" + s.theme.FormHint.Render("enter: create   esc: cancel"))
	case modalRename:
		return s.theme.Modal.Render(s.theme.FormTitle.Render("Rename conversation") + "\n" +
			s.modalInput.View() + "\n" + s.theme.FormHint.Render("enter: save   esc: cancel"))
	case modalDelete:
		return s.theme.Modal.Render(s.theme.FormError.Render("Delete this conversation?") + "\n" +
			s.theme.FormHint.Render("y: delete   n/esc: keep"))
	case modalCharacter:
		var b strings.Builder
		b.WriteString(s.theme.FormTitle.Render("Choose a trainer") + "\n")
		for i, c := range s.characters {
			line := c.Name
			if c.Description != "" {
				line += " - " + c.Description
			}
			line = util.Truncate(line, 60)
			if i == s.charCursor {
				b.WriteString(s.theme.SidebarSelected.Render(line))
			} else {
				b.WriteString(s.theme.SidebarItem.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString(s.theme.FormHint.Render("enter: start   esc: cancel"))
		return s.theme.Modal.Render(b.String())
	}
	return ""
}

func (s *chatScreen) view() string {
	if s.modal != modalNone {
		return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, s.modalView())
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		s.viewport.View(),
		"",
		s.input.View(),
	)
	if !s.showSidebar() {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, s.sidebarView(), " ", main)
}
