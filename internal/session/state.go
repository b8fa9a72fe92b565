// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/logging"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/tokenstore"
)

// Client is the part of the API client the session needs.
type Client interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, r api.RegisterRequest) (*model.User, error)
	CurrentUser(ctx context.Context) (*model.User, error)
}

// Store is the part of the token store the session needs.
type Store interface {
	TeamIDSource
	SetToken(ctx context.Context, src tokenstore.Source, token string) error
	RememberTeamID(ctx context.Context, id int) error
	Clear(ctx context.Context) error
}

// State is the explicit session object shared by screens and commands.
type State struct {
	Auth  *Auth
	Teams *Teams

	client Client
	store  Store
	log    *zap.Logger
}

// Bootstrap resolves the current user and seeds the active team.
//
// Failing to resolve the user, including having no token at all, leaves
// the state unauthenticated; the failure is logged, not returned. The
// returned error is reserved for missing dependencies.
func Bootstrap(ctx context.Context, client Client, store Store, log *zap.Logger) (*State, error) {
	if client == nil || store == nil {
		return nil, errors.New("session: client and store are required")
	}
	s := &State{
		Auth:   &Auth{},
		Teams:  &Teams{},
		client: client,
		store:  store,
		log:    logging.OrNop(log),
	}
	s.load(ctx)
	return s, nil
}

func (s *State) load(ctx context.Context) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.log.Warn("failed to resolve current user", zap.Error(err))
		user = nil
	}
	s.apply(ctx, user)
}

func (s *State) apply(ctx context.Context, user *model.User) {
	s.Auth.Set(user)
	team := s.Teams.Derive(ctx, user, s.store)
	if user == nil {
		s.log.Debug("session unauthenticated")
		return
	}
	fields := []zap.Field{zap.Int("user_id", user.ID)}
	if team != nil {
		fields = append(fields, zap.Int("team_id", team.ID))
	}
	s.log.Info("session resolved", fields...)
}

// LoginAs logs in and refreshes Auth and Teams.
//
// The token always lands in the durable area. Without remember it is also
// mirrored into the session area.
func (s *State) LoginAs(ctx context.Context, email, password string, remember bool) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !remember {
		if err := s.store.SetToken(ctx, tokenstore.SourceSession, resp.AccessToken); err != nil {
			return fmt.Errorf("failed to store session token: %w", err)
		}
	}
	return s.Refresh(ctx)
}

// RegisterAs creates an account, logs in with it and refreshes the state.
func (s *State) RegisterAs(ctx context.Context, r api.RegisterRequest) error {
	if _, err := s.client.Register(ctx, r); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Refresh re-fetches the current user and re-derives the active team.
// Team-changing actions such as creating a team call it explicitly.
func (s *State) Refresh(ctx context.Context) error {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	s.apply(ctx, user)
	return nil
}

// UseTeam makes id the active team and persists it.
func (s *State) UseTeam(ctx context.Context, id int) (*model.Team, error) {
	user, ok := s.Auth.User()
	if !ok {
		return nil, fmt.Errorf("use team %d: not logged in", id)
	}
	team, found := user.Team(id)
	if !found {
		return nil, fmt.Errorf("use team %d: %w", id, ErrNotMember)
	}
	if err := s.store.RememberTeamID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to store team id: %w", err)
	}
	s.Teams.Set(&team)
	s.log.Info("switched team", zap.Int("team_id", id))
	return &team, nil
}

// Logout clears both token areas and bootstraps again, which leaves the
// state unauthenticated.
func (s *State) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	if err != nil {
		s.log.Warn("failed to clear credentials", zap.Error(err))
	}
	s.load(ctx)
	return err
}

// Close drops all Auth subscriptions.
func (s *State) Close() {
	s.Auth.unsubscribeAll()
}
