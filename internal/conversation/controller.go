// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/logging"
	"github.com/jeranaias/proskill-tui/internal/model"
)

var (
	// ErrBusy is returned by Send while a previous send is in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrNoTeam is returned when an operation needs an active team.
	ErrNoTeam = errors.New("no active team")

	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("conversation controller closed")

	errNoSession = errors.New("not logged in")
)

// API is the part of the backend client a controller uses.
type API interface {
	ListConversations(ctx context.Context, kind model.Kind, teamID int) ([]model.Conversation, error)
	CreateConversation(ctx context.Context, kind model.Kind, title string, teamID, partnerID int) (*model.Conversation, error)
	DeleteConversation(ctx context.Context, kind model.Kind, id int) error
	RenameConversation(ctx context.Context, kind model.Kind, id int, title string) error
	ListMessages(ctx context.Context, kind model.Kind, id int) ([]model.Message, error)
	SendMessage(ctx context.Context, kind model.Kind, conversationID int, question string) (*model.ChatResponse, error)
}

// TeamSource yields the active team id.
type TeamSource interface {
	ID() (int, bool)
}

// State is the controller's per-conversation state.
type State int

const (
	// StateAbsent means no conversation is active.
	StateAbsent State = iota
	// StatePending means a send is in flight.
	StatePending
	// StateIdle means a conversation is active and nothing is in flight.
	StateIdle
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateIdle:
		return "idle"
	default:
		return "absent"
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns one screen's conversation state.
type Controller struct {
	kind  model.Kind
	api   API
	teams TeamSource
	opts  Options
	log   *zap.Logger

	life   context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	messages    []model.Message
	history     []model.Conversation
	convID      int
	active      bool
	pending     bool
	initialized bool
	closed      bool
	// gen changes whenever the active conversation does. In-flight calls
	// compare it before applying their result.
	gen uint64
	// selSeq orders overlapping Select calls; the latest one wins.
	selSeq uint64
}

// New creates a controller for kind.
func New(kind model.Kind, api API, teams TeamSource, opts Options) *Controller {
	opts = opts.withDefaults()
	life, cancel := context.WithCancel(context.Background())
	return &Controller{
		kind:   kind,
		api:    api,
		teams:  teams,
		opts:   opts,
		log:    logging.OrNop(opts.Logger).With(zap.String("kind", kind.String())),
		life:   life,
		cancel: cancel,
	}
}

// Kind returns the controller's conversation track.
func (c *Controller) Kind() model.Kind {
	return c.kind
}

// scope derives a context that ends with either ctx or the controller.
func (c *Controller) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) teamID() (int, bool) {
	if c.teams == nil {
		return 0, false
	}
	return c.teams.ID()
}

// current reports whether gen is still the live generation. mu must be held.
func (c *Controller) current(gen uint64) bool {
	return !c.closed && c.gen == gen
}

// =============================================================================
// INITIALIZE
// =============================================================================

// Initialize loads the history and, when priming is enabled and no
// conversation is active, opens one and sends the priming message. Only
// the first call does anything.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.initialized = true
	c.mu.Unlock()

	if _, ok := c.teamID(); !ok {
		c.log.Warn("no active team, skipping conversation setup")
		return ErrNoTeam
	}

	c.LoadHistory(ctx)

	c.mu.Lock()
	prime := c.opts.Prime && !c.active
	c.mu.Unlock()
	if !prime {
		return nil
	}

	if _, err := c.NewConversation(ctx, c.opts.PrimeTitle, c.opts.PartnerID); err != nil {
		c.log.Error("failed to open priming conversation", zap.Error(err))
		return err
	}
	return c.Send(ctx, c.opts.PrimeMessage)
}

// =============================================================================
// SEND
// =============================================================================

// Send posts text to the active conversation, creating one if needed.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.pending = true
	c.messages = append(c.messages, model.NewHumanMessage(text))
	gen := c.gen
	convID, active := c.convID, c.active
	c.mu.Unlock()

	ctx, done := c.scope(ctx)
	defer done()

	if !active {
		conv, err := c.create(ctx, text, c.opts.PartnerID)
		if err != nil {
			c.log.Error("failed to create conversation", zap.Error(err))
			c.finishSend(gen, nil)
			return nil
		}

		c.mu.Lock()
		if !c.current(gen) {
			c.mu.Unlock()
			c.log.Debug("discarding created conversation for a stale screen", zap.Int("conversation_id", conv.ID))
			return nil
		}
		c.convID, c.active = conv.ID, true
		c.history = append(c.history, *conv)
		c.mu.Unlock()
		convID = conv.ID
	}

	resp, err := c.api.SendMessage(ctx, c.kind, convID, text)
	switch {
	case err != nil:
		c.log.Error("failed to send message", zap.Int("conversation_id", convID), zap.Error(err))
		resp = nil
	case resp == nil:
		c.log.Warn("send returned no response", zap.Int("conversation_id", convID))
	}
	c.finishSend(gen, resp)
	return nil
}

// finishSend appends the reply, or the error reply when resp is nil.
func (c *Controller) finishSend(gen uint64, resp *model.ChatResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		c.log.Debug("discarding late reply")
		return
	}
	c.pending = false
	if resp == nil {
		c.messages = append(c.messages, model.NewBotMessage(c.opts.ErrorReply))
		return
	}
	c.messages = append(c.messages, resp.Message())
}

func (c *Controller) create(ctx context.Context, title string, partnerID int) (*model.Conversation, error) {
	teamID, ok := c.teamID()
	if !ok {
		return nil, ErrNoTeam
	}
	conv, err := c.api.CreateConversation(ctx, c.kind, title, teamID, partnerID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errNoSession
	}
	return conv, nil
}

// =============================================================================
// HISTORY
// =============================================================================

// NewConversation creates a conversation and makes it active with an
// empty transcript.
func (c *Controller) NewConversation(ctx context.Context, title string, partnerID int) (*model.Conversation, error) {
	title = strings.TrimSpace(title)
	if partnerID == 0 {
		partnerID = c.opts.PartnerID
	}
	ctx, done := c.scope(ctx)
	defer done()

	conv, err := c.create(ctx, title, partnerID)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	c.history = append(c.history, *conv)
	c.gen++
	c.convID, c.active = conv.ID, true
	c.messages = nil
	c.pending = false
	cp := *conv
	return &cp, nil
}

// Select makes id the active conversation and loads its transcript.
// Selecting the active conversation again does nothing.
func (c *Controller) Select(ctx context.Context, id int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.active && c.convID == id {
		c.mu.Unlock()
		return nil
	}
	c.selSeq++
	seq, gen := c.selSeq, c.gen
	c.mu.Unlock()

	ctx, done := c.scope(ctx)
	defer done()

	msgs, err := c.api.ListMessages(ctx, c.kind, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) || c.selSeq != seq {
		return nil
	}
	if err != nil {
		// nothing was switched, so a pending reply still lands
		c.log.Error("failed to load messages", zap.Int("conversation_id", id), zap.Error(err))
		return err
	}
	c.gen++
	c.convID, c.active = id, true
	c.pending = false
	c.messages = msgs
	return nil
}

// LoadHistory refreshes the team's conversation list. Failures leave an
// empty list.
func (c *Controller) LoadHistory(ctx context.Context) []model.Conversation {
	var list []model.Conversation
	if teamID, ok := c.teamID(); ok {
		ctx, done := c.scope(ctx)
		convs, err := c.api.ListConversations(ctx, c.kind, teamID)
		done()
		if err != nil {
			c.log.Warn("failed to load conversation history", zap.Error(err))
		} else {
			list = convs
		}
	} else {
		c.log.Warn("no active team, history is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.history = list
	return append([]model.Conversation(nil), list...)
}

// Rename changes a conversation's title, locally only once the backend
// accepted it.
func (c *Controller) Rename(ctx context.Context, id int, title string) error {
	title = strings.TrimSpace(title)
	ctx, done := c.scope(ctx)
	defer done()

	if err := c.api.RenameConversation(ctx, c.kind, id, title); err != nil {
		c.log.Error("failed to rename conversation", zap.Int("conversation_id", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := model.IndexConversation(c.history, id); i >= 0 {
		c.history[i].Title = title
	}
	return nil
}

// Delete removes a conversation. Deleting the active one clears the
// transcript.
func (c *Controller) Delete(ctx context.Context, id int) error {
	ctx, done := c.scope(ctx)
	defer done()

	if err := c.api.DeleteConversation(ctx, c.kind, id); err != nil {
		c.log.Error("failed to delete conversation", zap.Int("conversation_id", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := model.IndexConversation(c.history, id); i >= 0 {
		c.history = append(c.history[:i], c.history[i+1:]...)
	}
	if c.active && c.convID == id {
		c.gen++
		c.convID, c.active = 0, false
		c.messages = nil
		c.pending = false
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneMessages(c.messages)
}

// Conversations returns a copy of the history list.
func (c *Controller) Conversations() []model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Conversation(nil), c.history...)
}

// ConversationID returns the active conversation id.
func (c *Controller) ConversationID() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.convID, c.active
}

// State returns the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.pending:
		return StatePending
	case c.active:
		return StateIdle
	default:
		return StateAbsent
	}
}

// Busy reports whether a send is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Close ends the controller's lifetime and cancels in-flight calls.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending = false
	c.mu.Unlock()
	c.cancel()
}
