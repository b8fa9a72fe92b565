// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/proskill-tui/internal/api/apitest"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/tokenstore"
)

type fixture struct {
	srv     *apitest.Server
	durable *tokenstore.MemoryArea
	session *tokenstore.MemoryArea
	store   *tokenstore.Store
	client  *Client
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	f := &fixture{
		srv:     srv,
		durable: tokenstore.NewMemoryArea(),
		session: tokenstore.NewMemoryArea(),
	}
	f.store = tokenstore.New(f.durable, f.session, nil)
	f.client = New(srv.URL, f.store, opts...)
	return f
}

func (f *fixture) login(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, f.store.SetToken(context.Background(), tokenstore.SourceDurable, f.srv.Token(email)))
}

func TestClient_NoSessionShortCircuits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.client.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, user)

	teams, err := f.client.ListTeams(ctx)
	assert.NoError(t, err)
	assert.Nil(t, teams)

	team, err := f.client.CreateTeam(ctx, "x", "")
	assert.NoError(t, err)
	assert.Nil(t, team)

	for _, kind := range []model.Kind{model.KindAssessment, model.KindTraining} {
		convs, err := f.client.ListConversations(ctx, kind, 1)
		assert.NoError(t, err)
		assert.Nil(t, convs)

		conv, err := f.client.CreateConversation(ctx, kind, "t", 1, 1)
		assert.NoError(t, err)
		assert.Nil(t, conv)

		assert.NoError(t, f.client.RenameConversation(ctx, kind, 1, "t"))
		assert.NoError(t, f.client.DeleteConversation(ctx, kind, 1))

		msgs, err := f.client.ListMessages(ctx, kind, 1)
		assert.NoError(t, err)
		assert.Nil(t, msgs)

		resp, err := f.client.SendMessage(ctx, kind, 1, "hi")
		assert.NoError(t, err)
		assert.Nil(t, resp)
	}

	chars, err := f.client.ListCharacters(ctx)
	assert.NoError(t, err)
	assert.Nil(t, chars)

	train, err := f.client.TrainModel(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, train)

	assert.Zero(t, f.srv.TotalCalls(), "no request may reach the network without a token")
}

func TestClient_LoginPersistsTokenAndFirstTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.srv.AddUser("Ada", "ada@example.com", "pw", "Alpha", "Beta")

	resp, err := f.client.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	tok, ok, err := f.durable.Get(ctx, tokenstore.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp.AccessToken, tok)

	teamID, ok, err := f.durable.Get(ctx, tokenstore.KeyTeamID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strconv.Itoa(u.Teams[0].ID), teamID)

	assert.Equal(t, "Bearer "+resp.AccessToken, f.srv.Authorization(apitest.RouteMe))
	assert.Empty(t, f.srv.Authorization(apitest.RouteLogin))
}

func TestClient_LoginWithoutTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddUser("Solo", "solo@example.com", "pw")

	_, err := f.client.Login(ctx, "solo@example.com", "pw")
	require.NoError(t, err)

	_, ok := f.store.TeamID(ctx)
	assert.False(t, ok)
}

func TestClient_LoginRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddUser("Ada", "ada@example.com", "pw")

	_, err := f.client.Login(ctx, "ada@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, OutcomeRequestFailure, Classify(err))
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "Incorrect email or password", reqErr.Detail())

	_, ok := f.store.AccessToken(ctx)
	assert.False(t, ok)
	assert.Zero(t, f.srv.Calls(apitest.RouteMe))
}

func TestClient_RegisterChainsIntoLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.client.Register(ctx, RegisterRequest{
		Name:            "Grace",
		Email:           "grace@example.com",
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	require.Len(t, user.Teams, 1)
	assert.Equal(t, 1, f.srv.Calls(apitest.RouteLogin))

	tok, ok := f.store.AccessToken(ctx)
	require.True(t, ok)
	assert.NotEmpty(t, tok)

	teamID, ok := f.store.TeamID(ctx)
	require.True(t, ok)
	assert.Equal(t, user.Teams[0].ID, teamID)
}

func TestClient_RegisterValidationDetail(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Register(context.Background(), RegisterRequest{
		Name: "Grace", Email: "g@example.com", Password: "a", ConfirmPassword: "b",
	})
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.StatusCode)
	assert.Equal(t, "passwords do not match", reqErr.Detail())
	assert.Zero(t, f.srv.Calls(apitest.RouteLogin))
}

func TestClient_ConversationLifecycle(t *testing.T) {
	tests := []struct {
		kind    model.Kind
		qna     string
		partner int
	}{
		{model.KindAssessment, apitest.RouteQnA, 1},
		{model.KindTraining, apitest.RouteTrainerQnA, 2},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			u := f.srv.AddUser("Ada", "ada@example.com", "pw", "Alpha")
			f.login(t, "ada@example.com")
			teamID := u.Teams[0].ID

			conv, err := f.client.CreateConversation(ctx, tt.kind, "First", teamID, tt.partner)
			require.NoError(t, err)
			assert.Equal(t, "First", conv.Title)
			assert.Equal(t, tt.partner, f.srv.PartnerID(tt.kind, conv.ID))

			convs, err := f.client.ListConversations(ctx, tt.kind, teamID)
			require.NoError(t, err)
			require.Len(t, convs, 1)
			assert.Equal(t, conv.ID, convs[0].ID)

			resp, err := f.client.SendMessage(ctx, tt.kind, conv.ID, "hello")
			require.NoError(t, err)
			assert.Equal(t, "echo: hello", resp.Completion)
			assert.Equal(t, 1, f.srv.Calls(tt.qna))

			msgs, err := f.client.ListMessages(ctx, tt.kind, conv.ID)
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, model.RoleHuman, msgs[0].Role)
			assert.Equal(t, model.RoleBot, msgs[1].Role)
			assert.NotEmpty(t, msgs[0].LocalID)
			assert.NotEqual(t, msgs[0].LocalID, msgs[1].LocalID)

			require.NoError(t, f.client.RenameConversation(ctx, tt.kind, conv.ID, "Renamed"))
			assert.Equal(t, "Renamed", f.srv.Conversations(tt.kind, teamID)[0].Title)

			require.NoError(t, f.client.DeleteConversation(ctx, tt.kind, conv.ID))
			assert.Empty(t, f.srv.Conversations(tt.kind, teamID))

			err = f.client.DeleteConversation(ctx, tt.kind, conv.ID)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestClient_SendMessageCarriesPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.srv.AddUser("Ada", "ada@example.com", "pw", "Alpha")
	f.login(t, "ada@example.com")
	f.srv.SetReply(func(model.Kind, int, string) model.ChatResponse {
		return model.ChatResponse{
			Completion: "Here is your trend",
			Type:       model.PayloadPlot,
			Data:       []model.DataPoint{{Value: "3", Date: "2024-01-01"}},
		}
	})

	conv, err := f.client.CreateConversation(ctx, model.KindAssessment, "Trend", u.Teams[0].ID, 1)
	require.NoError(t, err)
	resp, err := f.client.SendMessage(ctx, model.KindAssessment, conv.ID, "plot it")
	require.NoError(t, err)

	msg := resp.Message()
	assert.True(t, msg.HasPayload())
	assert.Equal(t, model.PayloadPlot, msg.Type)
	assert.Equal(t, "2024-01-01", msg.Data[0].Date)
}

func TestClient_TeamsAndTraining(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddUser("Ada", "ada@example.com", "pw", "Alpha")
	f.login(t, "ada@example.com")

	team, err := f.client.CreateTeam(ctx, "Beta", "second")
	require.NoError(t, err)
	assert.Equal(t, "Beta", team.Name)

	teams, err := f.client.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].Name)

	chars, err := f.client.ListCharacters(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, chars)

	train, err := f.client.TrainModel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, train.NumberChunks)

	_, err = f.client.TrainModel(ctx, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_RejectedTokenIsRequestFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetToken(ctx, tokenstore.SourceSession, "not-a-real-token"))

	user, err := f.client.CurrentUser(ctx)
	assert.Nil(t, user)
	assert.Equal(t, OutcomeRequestFailure, Classify(err))
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Bearer not-a-real-token", f.srv.Authorization(apitest.RouteMe))
}

func TestClient_ServerFailure(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("Ada", "ada@example.com", "pw", "Alpha")
	f.login(t, "ada@example.com")
	f.srv.Fail(apitest.RouteListTeams, http.StatusInternalServerError)

	_, err := f.client.ListTeams(context.Background())
	assert.True(t, errors.Is(err, ErrServer))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := tokenstore.New(tokenstore.NewMemoryArea(), tokenstore.NewMemoryArea(), nil)
	require.NoError(t, store.SetToken(context.Background(), tokenstore.SourceDurable, "tok"))
	client := New(url, store, WithTimeout(2*time.Second))

	_, err := client.ListTeams(context.Background())
	require.Error(t, err)
	assert.Equal(t, OutcomeTransportFailure, Classify(err))
	assert.Zero(t, StatusCode(err))
}

func TestClient_UndecodableBodyIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer srv.Close()

	store := tokenstore.New(tokenstore.NewMemoryArea(), tokenstore.NewMemoryArea(), nil)
	require.NoError(t, store.SetToken(context.Background(), tokenstore.SourceDurable, "tok"))
	client := New(srv.URL+"/", store)
	assert.Equal(t, srv.URL, client.BaseURL())

	_, err := client.ListTeams(context.Background())
	assert.Equal(t, OutcomeTransportFailure, Classify(err))
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	f := newFixture(t, WithRateLimit(0.001, 1))
	f.srv.AddUser("Ada", "ada@example.com", "pw", "Alpha")
	f.login(t, "ada@example.com")

	_, err := f.client.ListTeams(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.client.ListTeams(ctx)
	assert.Equal(t, OutcomeTransportFailure, Classify(err))
	assert.Equal(t, 1, f.srv.Calls(apitest.RouteListTeams))
}

func TestRequestError_Detail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"list detail", `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"description", `{"description":"Model not trained"}`, "Model not trained"},
		{"not json", `oops`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &RequestError{Method: "GET", Path: "/x", StatusCode: 400, Body: []byte(tt.body)}
			assert.Equal(t, tt.want, e.Detail())
			assert.Contains(t, e.Error(), "HTTP 400")
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, Classify(nil))
	assert.Equal(t, OutcomeOther, Classify(errors.New("disk full")))
	assert.Equal(t, OutcomeRequestFailure, Classify(&RequestError{StatusCode: 400}))
	assert.Equal(t, OutcomeTransportFailure, Classify(&TransportError{Err: errors.New("refused")}))
}

func TestMessage(t *testing.T) {
	assert.Empty(t, Message(nil))
	assert.Equal(t, "Incorrect email or password",
		Message(&RequestError{StatusCode: 401, Body: []byte(`{"detail":"Incorrect email or password"}`)}))
	assert.Equal(t, "request failed (HTTP 502)", Message(&RequestError{StatusCode: 502}))
	assert.Equal(t, "could not reach the server", Message(&TransportError{Err: errors.New("refused")}))
	assert.Equal(t, "disk full", Message(errors.New("disk full")))
}

func TestInspectToken(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	u := srv.AddUser("Ada", "ada@example.com", "pw")

	info, err := InspectToken(srv.Token("ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(u.ID), info.Subject)
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(time.Now().Add(2*time.Hour)))

	_, err = InspectToken("opaque")
	assert.Error(t, err)
}
