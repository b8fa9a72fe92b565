// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/conversation"
	"github.com/jeranaias/proskill-tui/internal/session"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		wantCmd Command
		wantRaw []string
		check   func(*testing.T, Args)
	}{
		{name: "no args starts the TUI", argv: nil, wantCmd: CmdTUI},
		{name: "tui with screen", argv: []string{"tui", "--screen", "teams"}, wantCmd: CmdTUI, wantRaw: []string{"--screen", "teams"}},
		{name: "alias", argv: []string{"me"}, wantCmd: CmdWhoami},
		{
			name:    "global flags anywhere",
			argv:    []string{"teams", "--json", "list", "-v"},
			wantCmd: CmdTeams,
			wantRaw: []string{"list"},
			check: func(t *testing.T, a Args) {
				if !a.JSON || !a.Verbose {
					t.Errorf("JSON=%v Verbose=%v, want both set", a.JSON, a.Verbose)
				}
			},
		},
		{
			name:    "value flags",
			argv:    []string{"--api-url=http://backend:9000", "--config", "/tmp/p.toml", "status"},
			wantCmd: CmdStatus,
			check: func(t *testing.T, a Args) {
				if a.APIURL != "http://backend:9000" {
					t.Errorf("APIURL = %q", a.APIURL)
				}
				if a.ConfigPath != "/tmp/p.toml" {
					t.Errorf("ConfigPath = %q", a.ConfigPath)
				}
			},
		},
		{name: "version flag", argv: []string{"--version"}, wantCmd: CmdVersion},
		{name: "quiet", argv: []string{"-q", "logout"}, wantCmd: CmdLogout, check: func(t *testing.T, a Args) {
			if !a.Quiet {
				t.Error("Quiet not set")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cmd != tt.wantCmd {
				t.Errorf("command = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.wantRaw != nil && fmt.Sprint(args.Raw) != fmt.Sprint(tt.wantRaw) {
				t.Errorf("Raw = %v, want %v", args.Raw, tt.wantRaw)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, argv := range [][]string{
		{"frobnicate"},
		{"status", "--api-url"},
	} {
		_, _, err := Parse(argv)
		var usage *UsageError
		if !errors.As(err, &usage) {
			t.Errorf("Parse(%v) error = %v, want *UsageError", argv, err)
		}
	}
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "declared bool keeps the next positional",
			args:    []string{"rename", "--training", "12", "Q3", "review"},
			bools:   []string{"training"},
			wantSub: "rename",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("training") {
					t.Error("training not set")
				}
				if p.Positional(1) != "12" {
					t.Errorf("Positional(1) = %q, want 12", p.Positional(1))
				}
				if p.PositionalFrom(2) != "Q3 review" {
					t.Errorf("PositionalFrom(2) = %q", p.PositionalFrom(2))
				}
			},
		},
		{
			name:    "value flag",
			args:    []string{"create", "Sales", "--description", "EMEA desk"},
			wantSub: "create",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("description") != "EMEA desk" {
					t.Errorf("Flag(description) = %q", p.Flag("description"))
				}
			},
		},
		{
			name:    "equals form and explicit false",
			args:    []string{"delete", "4", "--yes=false", "--character=2"},
			bools:   []string{"yes"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("yes") {
					t.Error("yes should be false")
				}
				if n, err := p.FlagInt("character", 0); err != nil || n != 2 {
					t.Errorf("FlagInt(character) = %d, %v", n, err)
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"create", "--", "--not-a-flag"},
			wantSub: "create",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "--not-a-flag" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
				}
			},
		},
		{
			name:    "trailing undeclared flag is boolean",
			args:    []string{"list", "--verbose"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("verbose") {
					t.Error("verbose not set")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			if got := p.Subcommand(); got != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", got, tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42", "id"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := ParseID(bad, "id"); ExitCodeFor(err) != ExitUsageError {
			t.Errorf("ParseID(%q) exit code = %d, want %d", bad, ExitCodeFor(err), ExitUsageError)
		}
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

func TestExitCodeFor(t *testing.T) {
	_, validationErr := validate.Login{Email: "nope"}.Validate()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Message: "bad"}, ExitUsageError},
		{"validation", wrap("login", "", validationErr), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"unauthorized", wrap("teams", "list", &api.RequestError{StatusCode: 401}), ExitAuthError},
		{"forbidden", &api.RequestError{StatusCode: 403}, ExitAuthError},
		{"not logged in", wrap("whoami", "", ErrNotLoggedIn), ExitAuthError},
		{"not a member", fmt.Errorf("use: %w", session.ErrNotMember), ExitAuthError},
		{"no team", conversation.ErrNoTeam, ExitAuthError},
		{"server error", &api.RequestError{StatusCode: 500}, ExitGeneralError},
		{"transport", wrap("status", "", &api.TransportError{Err: errors.New("refused")}), ExitNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandError_UsesBackendDetail(t *testing.T) {
	err := wrap("teams", "create", &api.RequestError{
		Method: "POST", Path: "/api/teams/", StatusCode: 400,
		Body: []byte(`{"detail":"Team name is required"}`),
	})
	if got, want := err.Error(), "teams create: Team name is required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
