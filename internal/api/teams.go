// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/proskill-tui/internal/model"
)

type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListTeams returns the teams visible to the user, nil without a session.
func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	token, ok := c.token(ctx, "list teams")
	if !ok {
		return nil, nil
	}
	var teams []model.Team
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/teams/", token: token}, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// CreateTeam creates a team. It returns nil, nil without a session.
func (c *Client) CreateTeam(ctx context.Context, name, description string) (*model.Team, error) {
	token, ok := c.token(ctx, "create team")
	if !ok {
		return nil, nil
	}
	var team model.Team
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/teams/",
		token:  token,
		body:   createTeamRequest{Name: name, Description: description},
	}, &team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}
