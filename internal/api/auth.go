// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/model"
)

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
//
// On success the token is written to the durable area, the current user is
// fetched with it and, when the user belongs to at least one team, the first
// team's id is written to the durable area too.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   loginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.creds.RememberToken(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if team, ok := user.FirstTeam(); ok {
		if err := c.creds.RememberTeamID(ctx, team.ID); err != nil {
			return nil, fmt.Errorf("failed to store team id: %w", err)
		}
	}

	c.log.Info("logged in", zap.String("email", email))
	return &resp, nil
}

// Register creates an account, then logs in with the same credentials.
// The first team of the newly created user is persisted to the durable
// area afterwards.
func (c *Client) Register(ctx context.Context, r RegisterRequest) (*model.User, error) {
	var user model.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   r,
	}, &user)
	if err != nil {
		return nil, err
	}

	if _, err := c.Login(ctx, r.Email, r.Password); err != nil {
		return nil, err
	}

	if team, ok := user.FirstTeam(); ok {
		if err := c.creds.RememberTeamID(ctx, team.ID); err != nil {
			return nil, fmt.Errorf("failed to store team id: %w", err)
		}
	}
	return &user, nil
}

// CurrentUser fetches the authenticated user. It returns nil, nil when no
// token is stored.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	token, ok := c.token(ctx, "current user")
	if !ok {
		return nil, nil
	}
	var user model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me", token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
