// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/api/apitest"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/tokenstore"
)

type fixedTeam struct {
	id int
	ok bool
}

func (f fixedTeam) ID() (int, bool) { return f.id, f.ok }

type line struct {
	Role    model.Role
	Content string
}

func transcript(msgs []model.Message) []line {
	out := make([]line, len(msgs))
	for i, m := range msgs {
		out[i] = line{m.Role, m.Content}
	}
	return out
}

type env struct {
	srv    *apitest.Server
	client *api.Client
	teamID int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	u := srv.AddUser("Ada", "ada@example.com", "pw", "Alpha")
	store := tokenstore.New(tokenstore.NewMemoryArea(), tokenstore.NewMemoryArea(), nil)
	require.NoError(t, store.SetToken(context.Background(), tokenstore.SourceDurable, srv.Token("ada@example.com")))
	return &env{srv: srv, client: api.New(srv.URL, store), teamID: u.Teams[0].ID}
}

func (e *env) controller(t *testing.T, kind model.Kind, opts Options) *Controller {
	t.Helper()
	c := New(kind, e.client, fixedTeam{e.teamID, true}, opts)
	t.Cleanup(c.Close)
	return c
}

// hold blocks route until the test ends or release is called.
func (e *env) hold(t *testing.T, route string) func() {
	release := e.srv.Hold(route)
	t.Cleanup(release)
	return release
}

func waitCalls(t *testing.T, srv *apitest.Server, route string, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Wait(ctx, route, n))
}

func TestSend_CreatesOnceAndReusesID(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindAssessment, Options{})
	ctx := context.Background()

	_, ok := c.ConversationID()
	require.False(t, ok)
	assert.Equal(t, StateAbsent, c.State())

	require.NoError(t, c.Send(ctx, "  first question  "))
	id, ok := c.ConversationID()
	require.True(t, ok)
	assert.Equal(t, StateIdle, c.State())

	require.NoError(t, c.Send(ctx, "second question"))
	again, _ := c.ConversationID()
	assert.Equal(t, id, again)

	assert.Equal(t, 1, e.srv.Calls(apitest.RouteCreateConversation))
	assert.Equal(t, 2, e.srv.Calls(apitest.RouteQnA))

	convs := e.srv.Conversations(model.KindAssessment, e.teamID)
	require.Len(t, convs, 1)
	assert.Equal(t, "first question", convs[0].Title)
	assert.Equal(t, 1, e.srv.PartnerID(model.KindAssessment, id))

	history := c.Conversations()
	require.Len(t, history, 1)
	assert.Equal(t, id, history[0].ID)
}

func TestSend_TranscriptOrder(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindAssessment, Options{})
	ctx := context.Background()

	require.NoError(t, c.Send(ctx, "one"))
	require.NoError(t, c.Send(ctx, "two"))

	want := []line{
		{model.RoleHuman, "one"},
		{model.RoleBot, "echo: one"},
		{model.RoleHuman, "two"},
		{model.RoleBot, "echo: two"},
	}
	if diff := cmp.Diff(want, transcript(c.Messages())); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestSend_HumanMessageIsOptimistic(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindAssessment, Options{})
	release := e.hold(t, apitest.RouteQnA)

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "are you there") }()
	waitCalls(t, e.srv, apitest.RouteQnA, 1)

	assert.Equal(t, StatePending, c.State())
	assert.True(t, c.Busy())
	if diff := cmp.Diff([]line{{model.RoleHuman, "are you there"}}, transcript(c.Messages())); diff != "" {
		t.Errorf("pending transcript mismatch (-want +got):\n%s", diff)
	}

	assert.ErrorIs(t, c.Send(context.Background(), "again"), ErrBusy)

	release()
	require.NoError(t, <-done)
	assert.False(t, c.Busy())
	assert.Len(t, c.Messages(), 2)
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteQnA))
}

func TestSend_FailuresBecomeErrorReply(t *testing.T) {
	tests := []struct {
		name  string
		route string
		teams TeamSource
	}{
		{"send rejected", apitest.RouteQnA, nil},
		{"create rejected", apitest.RouteCreateConversation, nil},
		{"no team", "", fixedTeam{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			teams := tt.teams
			if teams == nil {
				teams = fixedTeam{e.teamID, true}
			}
			c := New(model.KindAssessment, e.client, teams, Options{})
			defer c.Close()
			if tt.route != "" {
				e.srv.Fail(tt.route, http.StatusInternalServerError)
			}

			err := c.Send(context.Background(), "hello")
			require.NoError(t, err)

			want := []line{
				{model.RoleHuman, "hello"},
				{model.RoleBot, "Error processing your request"},
			}
			if diff := cmp.Diff(want, transcript(c.Messages())); diff != "" {
				t.Errorf("transcript mismatch (-want +got):\n%s", diff)
			}
			assert.False(t, c.Busy())
		})
	}
}

func TestSend_TransportFailureBecomesErrorReply(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindTraining, Options{ErrorReply: "try later"})
	ctx := context.Background()
	require.NoError(t, c.Send(ctx, "hi"))

	e.srv.Close()
	require.NoError(t, c.Send(ctx, "still there?"))
	msgs := c.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "try later", msgs[3].Content)
}

func TestSend_EmptyIsNoop(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindAssessment, Options{})

	for _, text := range []string{"", "   ", "\n\t"} {
		require.NoError(t, c.Send(context.Background(), text))
	}
	assert.Empty(t, c.Messages())
	_, ok := c.ConversationID()
	assert.False(t, ok)
	assert.Zero(t, e.srv.TotalCalls())
}

func TestSend_CarriesPayload(t *testing.T) {
	e := newEnv(t)
	e.srv.SetReply(func(model.Kind, int, string) model.ChatResponse {
		return model.ChatResponse{
			Completion: "scores",
			Type:       model.PayloadTable,
			Data:       []model.DataPoint{{Value: "7", Date: "2024-03-01"}},
		}
	})
	c := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, c.Send(context.Background(), "table please"))

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.PayloadTable, msgs[1].Type)
	assert.Equal(t, []model.DataPoint{{Value: "7", Date: "2024-03-01"}}, msgs[1].Data)
}

func TestSelect_SameIDReloadsOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seed := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, seed.Send(ctx, "seed"))
	id, _ := seed.ConversationID()

	c := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, c.Select(ctx, id))
	require.NoError(t, c.Select(ctx, id))

	assert.Equal(t, 1, e.srv.Calls(apitest.RouteListMessages))
	want := []line{{model.RoleHuman, "seed"}, {model.RoleBot, "echo: seed"}}
	if diff := cmp.Diff(want, transcript(c.Messages())); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_FailureKeepsPrevious(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, c.Send(ctx, "keep me"))
	before, _ := c.ConversationID()

	require.Error(t, c.Select(ctx, 9999))
	assert.Len(t, c.Messages(), 2)
	after, _ := c.ConversationID()
	assert.Equal(t, before, after)
}

func TestSelect_FailureKeepsPendingReply(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, c.Send(ctx, "first"))

	release := e.hold(t, apitest.RouteQnA)
	done := make(chan error, 1)
	go func() { done <- c.Send(ctx, "second") }()
	waitCalls(t, e.srv, apitest.RouteQnA, 2)

	e.srv.Fail(apitest.RouteListMessages, http.StatusInternalServerError)
	require.Error(t, c.Select(ctx, 9999))
	release()
	require.NoError(t, <-done)

	want := []line{
		{model.RoleHuman, "first"}, {model.RoleBot, "echo: first"},
		{model.RoleHuman, "second"}, {model.RoleBot, "echo: second"},
	}
	if diff := cmp.Diff(want, transcript(c.Messages())); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, c.Busy())
}

func TestSelect_DiscardsReplyForPreviousConversation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seed := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, seed.Send(ctx, "other"))
	other, _ := seed.ConversationID()

	c := e.controller(t, model.KindAssessment, Options{})
	require.NoError(t, c.Send(ctx, "mine"))

	release := e.hold(t, apitest.RouteQnA)
	done := make(chan error, 1)
	go func() { done <- c.Send(ctx, "slow") }()
	waitCalls(t, e.srv, apitest.RouteQnA, 3)

	require.NoError(t, c.Select(ctx, other))
	release()
	require.NoError(t, <-done)

	want := []line{{model.RoleHuman, "other"}, {model.RoleBot, "echo: other"}}
	if diff := cmp.Diff(want, transcript(c.Messages())); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, c.Busy())
}

func TestClose_DiscardsLateReply(t *testing.T) {
	e := newEnv(t)
	c := New(model.KindAssessment, e.client, fixedTeam{e.teamID, true}, Options{})
	release := e.hold(t, apitest.RouteQnA)

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), "bye") }()
	waitCalls(t, e.srv, apitest.RouteQnA, 1)

	c.Close()
	release()
	require.NoError(t, <-done)

	if diff := cmp.Diff([]line{{model.RoleHuman, "bye"}}, transcript(c.Messages())); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
	assert.ErrorIs(t, c.Send(context.Background(), "more"), ErrClosed)
	assert.ErrorIs(t, c.Select(context.Background(), 1), ErrClosed)
}

func TestInitialize_PrimesOnce(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindAssessment, OptionsFromConfig(model.KindAssessment, defaultConfig()))
	ctx := context.Background()

	require.NoError(t, c.Initialize(ctx))
	require.NoError(t, c.Initialize(ctx))

	assert.Equal(t, 1, e.srv.Calls(apitest.RouteCreateConversation))
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteQnA))
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteListConversations))

	convs := e.srv.Conversations(model.KindAssessment, e.teamID)
	require.Len(t, convs, 1)
	assert.Equal(t, "Skill Assessment", convs[0].Title)
	assert.Equal(t, 1, e.srv.PartnerID(model.KindAssessment, convs[0].ID))

	want := []line{
		{model.RoleHuman, "Hello, I'm ready to start the skill assessment."},
		{model.RoleBot, "echo: Hello, I'm ready to start the skill assessment."},
	}
	if diff := cmp.Diff(want, transcript(c.Messages())); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialize_TrainingDoesNotPrime(t *testing.T) {
	e := newEnv(t)
	c := e.controller(t, model.KindTraining, OptionsFromConfig(model.KindTraining, defaultConfig()))

	require.NoError(t, c.Initialize(context.Background()))
	assert.Zero(t, e.srv.Calls(apitest.RouteCreateTraining))
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteListTraining))
	assert.Equal(t, StateAbsent, c.State())
}

func TestInitialize_NoTeam(t *testing.T) {
	e := newEnv(t)
	c := New(model.KindAssessment, e.client, fixedTeam{}, DefaultOptions(model.KindAssessment))
	defer c.Close()

	assert.ErrorIs(t, c.Initialize(context.Background()), ErrNoTeam)
	assert.Zero(t, e.srv.TotalCalls())
}

func TestRenameAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.controller(t, model.KindTraining, Options{PartnerID: 2})

	first, err := c.NewConversation(ctx, "first", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, e.srv.PartnerID(model.KindTraining, first.ID))
	require.NoError(t, c.Send(ctx, "hi"))
	second, err := c.NewConversation(ctx, "second", 1)
	require.NoError(t, err)
	assert.Empty(t, c.Messages(), "a new conversation starts with an empty transcript")

	require.NoError(t, c.Rename(ctx, first.ID, "  renamed "))
	assert.Equal(t, "renamed", c.Conversations()[0].Title)

	e.srv.Fail(apitest.RouteRenameTraining, http.StatusInternalServerError)
	assert.Error(t, c.Rename(ctx, first.ID, "nope"))
	assert.Equal(t, "renamed", c.Conversations()[0].Title)
	e.srv.Fail(apitest.RouteRenameTraining, 0)

	e.srv.Fail(apitest.RouteDeleteTraining, http.StatusForbidden)
	assert.ErrorIs(t, c.Delete(ctx, first.ID), api.ErrForbidden)
	assert.Len(t, c.Conversations(), 2)
	e.srv.Fail(apitest.RouteDeleteTraining, 0)

	require.NoError(t, c.Delete(ctx, first.ID))
	require.Len(t, c.Conversations(), 1)
	id, ok := c.ConversationID()
	assert.True(t, ok, "deleting another conversation keeps the active one")
	assert.Equal(t, second.ID, id)

	require.NoError(t, c.Delete(ctx, second.ID))
	_, ok = c.ConversationID()
	assert.False(t, ok)
	assert.Equal(t, StateAbsent, c.State())
	assert.Empty(t, c.Messages())
}

func TestLoadHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.controller(t, model.KindAssessment, Options{})
	_, err := c.NewConversation(ctx, "a", 0)
	require.NoError(t, err)
	_, err = c.NewConversation(ctx, "b", 0)
	require.NoError(t, err)

	assert.Len(t, c.LoadHistory(ctx), 2)

	e.srv.Fail(apitest.RouteListConversations, http.StatusBadGateway)
	assert.Empty(t, c.LoadHistory(ctx))
	assert.Empty(t, c.Conversations())
}
