// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard decides which screen a navigation request actually lands on.
package guard

import "strings"

// =============================================================================
// ROUTES
// =============================================================================

// Route identifies a screen.
type Route int

const (
	RouteHome Route = iota
	RouteLogin
	RouteRegister
	RouteChat
	RouteTraining
	RouteTeams
	RouteTeam
)

type routeInfo struct {
	path      string
	protected bool
}

var routes = map[Route]routeInfo{
	RouteHome:     {"/", false},
	RouteLogin:    {"/login", false},
	RouteRegister: {"/register", false},
	RouteChat:     {"/chat", true},
	RouteTraining: {"/training", true},
	RouteTeams:    {"/teams", true},
	RouteTeam:     {"/team", true},
}

// Path returns the route's path.
func (r Route) Path() string {
	return routes[r].path
}

// Protected reports whether the route requires a logged-in user.
func (r Route) Protected() bool {
	return routes[r].protected
}

// String returns the route's path.
func (r Route) String() string {
	return r.Path()
}

// ParseRoute maps a path or bare name ("chat", "/chat") to a route.
func ParseRoute(s string) (Route, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	for r, info := range routes {
		if info.path == s {
			return r, true
		}
	}
	return RouteHome, false
}

// Location is a route plus its parameters, such as a team id.
type Location struct {
	Route  Route
	Params map[string]string
}

// At returns a parameterless location.
func At(r Route) Location {
	return Location{Route: r}
}

// =============================================================================
// GUARD
// =============================================================================

// AuthState is the guard's view of the session.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticated
)

// AuthSource reports whether a user is logged in.
type AuthSource interface {
	IsAuthenticated() bool
}

// Decision is the outcome of resolving a navigation request.
type Decision struct {
	Target     Location
	Redirected bool
	// From is the originally requested location when Redirected.
	From *Location
}

// Guard gates protected routes on the session.
type Guard struct {
	auth AuthSource
}

// New creates a guard backed by auth.
func New(auth AuthSource) *Guard {
	return &Guard{auth: auth}
}

// State returns the current authentication state.
func (g *Guard) State() AuthState {
	if g.auth != nil && g.auth.IsAuthenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// Resolve sends unauthenticated requests for protected routes to the login
// screen, remembering where they were headed. Everything else passes.
func (g *Guard) Resolve(loc Location) Decision {
	if loc.Route.Protected() && g.State() == Unauthenticated {
		from := loc
		return Decision{Target: At(RouteLogin), Redirected: true, From: &from}
	}
	return Decision{Target: loc}
}

// AfterLogin returns the landing location after a successful login. The
// default landing screen is used even when the decision carries a From.
func AfterLogin(_ Decision) Location {
	return At(RouteChat)
}

// Restore returns the location a redirect came from, or the default
// landing screen when there was none.
func Restore(d Decision) Location {
	if d.Redirected && d.From != nil {
		return *d.From
	}
	return At(RouteChat)
}
