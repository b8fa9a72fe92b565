// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Team is a tenant grouping a user belongs to.
type Team struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// User is the authenticated account as returned by the backend.
type User struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
	Teams   []Team `json:"teams"`
}

// Team returns the membership with the given id.
func (u *User) Team(id int) (Team, bool) {
	if u == nil {
		return Team{}, false
	}
	for _, t := range u.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// FirstTeam returns the first membership, if any.
func (u *User) FirstTeam() (Team, bool) {
	if u == nil || len(u.Teams) == 0 {
		return Team{}, false
	}
	return u.Teams[0], true
}

// Clone returns a deep copy so holders never share the team slice.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Teams = append([]Team(nil), u.Teams...)
	return &c
}

// Character is a trainer persona used by training conversations.
type Character struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
