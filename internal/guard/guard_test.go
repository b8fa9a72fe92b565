// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import "testing"

type fakeAuth bool

func (f fakeAuth) IsAuthenticated() bool { return bool(f) }

func TestGuard_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		authed   bool
		route    Route
		want     Route
		redirect bool
	}{
		{"open route while logged out", false, RouteRegister, RouteRegister, false},
		{"home while logged out", false, RouteHome, RouteHome, false},
		{"chat while logged out", false, RouteChat, RouteLogin, true},
		{"training while logged out", false, RouteTraining, RouteLogin, true},
		{"teams while logged out", false, RouteTeams, RouteLogin, true},
		{"chat while logged in", true, RouteChat, RouteChat, false},
		{"login while logged in", true, RouteLogin, RouteLogin, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(fakeAuth(tt.authed))
			d := g.Resolve(At(tt.route))
			if d.Target.Route != tt.want {
				t.Errorf("Target = %v, want %v", d.Target.Route, tt.want)
			}
			if d.Redirected != tt.redirect {
				t.Errorf("Redirected = %v, want %v", d.Redirected, tt.redirect)
			}
			if tt.redirect && (d.From == nil || d.From.Route != tt.route) {
				t.Errorf("From = %+v, want %v", d.From, tt.route)
			}
			if !tt.redirect && d.From != nil {
				t.Errorf("From = %+v, want nil", d.From)
			}
		})
	}
}

func TestGuard_RedirectKeepsParams(t *testing.T) {
	g := New(fakeAuth(false))
	loc := Location{Route: RouteTeam, Params: map[string]string{"id": "4"}}
	d := g.Resolve(loc)
	if d.From == nil || d.From.Params["id"] != "4" {
		t.Fatalf("From = %+v, want team 4", d.From)
	}
	if got := Restore(d); got.Route != RouteTeam {
		t.Errorf("Restore() = %v, want %v", got.Route, RouteTeam)
	}
	if got := AfterLogin(d); got.Route != RouteChat {
		t.Errorf("AfterLogin() = %v, want default landing %v", got.Route, RouteChat)
	}
}

func TestGuard_NilAuthIsUnauthenticated(t *testing.T) {
	if New(nil).State() != Unauthenticated {
		t.Error("nil auth source should be unauthenticated")
	}
}

func TestParseRoute(t *testing.T) {
	for _, in := range []string{"chat", "/chat", " CHAT "} {
		if r, ok := ParseRoute(in); !ok || r != RouteChat {
			t.Errorf("ParseRoute(%q) = %v, %v", in, r, ok)
		}
	}
	if _, ok := ParseRoute("nowhere"); ok {
		t.Error("ParseRoute(nowhere) should fail")
	}
}
