// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/jeranaias/proskill-tui/internal/model"
)

// ErrNotMember is returned when switching to a team the user is not in.
var ErrNotMember = errors.New("not a member of this team")

// TeamIDSource yields the persisted team id, if any.
type TeamIDSource interface {
	TeamID(ctx context.Context) (int, bool)
}

// Teams holds the active team. The zero value has no team.
type Teams struct {
	mu   sync.RWMutex
	team *model.Team
}

// Team returns the active team, or nil.
func (t *Teams) Team() *model.Team {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.team == nil {
		return nil
	}
	cp := *t.team
	return &cp
}

// ID returns the active team id and whether a team is active.
func (t *Teams) ID() (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.team == nil {
		return 0, false
	}
	return t.team.ID, true
}

// Set replaces the active team.
func (t *Teams) Set(team *model.Team) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if team == nil {
		t.team = nil
		return
	}
	cp := *team
	t.team = &cp
}

// Derive sets the active team from the user's memberships and the
// persisted id.
func (t *Teams) Derive(ctx context.Context, u *model.User, src TeamIDSource) *model.Team {
	var (
		id int
		ok bool
	)
	if src != nil {
		id, ok = src.TeamID(ctx)
	}
	team := ResolveTeam(u, id, ok)
	t.Set(team)
	return team
}

// ResolveTeam picks the active team: the persisted id when the user is a
// member of it, else the user's first team, else nil.
func ResolveTeam(u *model.User, persisted int, ok bool) *model.Team {
	if u == nil {
		return nil
	}
	if ok {
		if team, found := u.Team(persisted); found {
			return &team
		}
	}
	if team, found := u.FirstTeam(); found {
		return &team
	}
	return nil
}
