// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout, whoami and status.

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// UserInfo is the JSON shape of the logged-in identity.
type UserInfo struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	IsAdmin    bool         `json:"is_admin"`
	Teams      []model.Team `json:"teams"`
	ActiveTeam *model.Team  `json:"active_team"`
}

func userInfo(env *app.Env, u *model.User) UserInfo {
	teams := u.Teams
	if teams == nil {
		teams = []model.Team{}
	}
	return UserInfo{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		Teams:      teams,
		ActiveTeam: env.Session.Teams.Team(),
	}
}

func (r *Runner) printUser(w io.Writer, info UserInfo) {
	fmt.Fprintln(w, RenderField("User", fmt.Sprintf("%s <%s>", info.Name, info.Email)))
	team := DimStyle.Render("none")
	if info.ActiveTeam != nil {
		team = fmt.Sprintf("%s (#%d)", info.ActiveTeam.Name, info.ActiveTeam.ID)
	}
	fmt.Fprintln(w, RenderField("Active team", team))
}

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

func (r *Runner) login(ctx context.Context, env *app.Env, args Args) error {
	p := NewArgParser(args.Raw, "no-remember")
	prompt := NewPrompter(r.Stdin, r.Stderr)

	form := validate.Login{Email: p.Flag("email")}
	var err error
	if form.Email == "" {
		if form.Email, err = prompt.Line("Email: "); err != nil {
			return err
		}
	}
	if form.Password, err = prompt.Password("Password: "); err != nil {
		return err
	}
	if form, err = form.Validate(); err != nil {
		return err
	}

	if err := env.Session.LoginAs(ctx, form.Email, form.Password, !p.BoolFlag("no-remember")); err != nil {
		return err
	}
	u, err := requireUser(env)
	if err != nil {
		return err
	}
	info := userInfo(env, u)
	return r.emit(args, CmdLogin, info, func(w io.Writer) {
		if args.Quiet {
			return
		}
		fmt.Fprintln(w, RenderSuccess("Logged in as "+u.Name))
		r.printUser(w, info)
	})
}

func (r *Runner) register(ctx context.Context, env *app.Env, args Args) error {
	p := NewArgParser(args.Raw)
	prompt := NewPrompter(r.Stdin, r.Stderr)

	form := validate.Register{Name: p.Flag("name"), Email: p.Flag("email")}
	var err error
	if form.Name == "" {
		if form.Name, err = prompt.Line("Name: "); err != nil {
			return err
		}
	}
	if form.Email == "" {
		if form.Email, err = prompt.Line("Email: "); err != nil {
			return err
		}
	}
	if form.Password, err = prompt.Password("Password: "); err != nil {
		return err
	}
	if form.ConfirmPassword, err = prompt.Password("Confirm password: "); err != nil {
		return err
	}
	if form, err = form.Validate(); err != nil {
		return err
	}

	err = env.Session.RegisterAs(ctx, api.RegisterRequest{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	u, err := requireUser(env)
	if err != nil {
		return err
	}
	info := userInfo(env, u)
	return r.emit(args, CmdRegister, info, func(w io.Writer) {
		if args.Quiet {
			return
		}
		fmt.Fprintln(w, RenderSuccess("Account created for "+u.Email))
		r.printUser(w, info)
	})
}

func (r *Runner) logout(ctx context.Context, env *app.Env, args Args) error {
	if err := env.Session.Logout(ctx); err != nil {
		return err
	}
	return r.emit(args, CmdLogout, map[string]bool{"logged_out": true}, func(w io.Writer) {
		r.say(args, RenderSuccess("Logged out"))
	})
}

// =============================================================================
// WHOAMI / STATUS
// =============================================================================

func (r *Runner) whoami(env *app.Env, args Args) error {
	u, err := requireUser(env)
	if err != nil {
		return err
	}
	info := userInfo(env, u)
	return r.emit(args, CmdWhoami, info, func(w io.Writer) {
		r.printUser(w, info)
	})
}

// StatusInfo is the JSON shape of the status command.
type StatusInfo struct {
	BaseURL     string     `json:"base_url"`
	ConfigPath  string     `json:"config_path"`
	TokenSource string     `json:"token_source"`
	TokenExpiry *time.Time `json:"token_expires_at,omitempty"`
	Expired     bool       `json:"token_expired"`
	LoggedIn    bool       `json:"logged_in"`
	User        *UserInfo  `json:"user,omitempty"`
}

// status works without a session; it reports what is stored.
func (r *Runner) status(ctx context.Context, env *app.Env, args Args) error {
	info := StatusInfo{
		BaseURL:     env.Client.BaseURL(),
		ConfigPath:  env.ConfigPath,
		TokenSource: env.Store.Source(ctx).String(),
	}
	if tok, ok := env.Store.AccessToken(ctx); ok {
		if ti, err := api.InspectToken(tok); err == nil && !ti.ExpiresAt.IsZero() {
			exp := ti.ExpiresAt
			info.TokenExpiry = &exp
			info.Expired = ti.Expired(time.Now())
		}
	}
	if u, ok := env.Session.Auth.User(); ok {
		ui := userInfo(env, u)
		info.LoggedIn = true
		info.User = &ui
	}

	return r.emit(args, CmdStatus, info, func(w io.Writer) {
		fmt.Fprintln(w, TitleStyle.Render("proskill status"))
		fmt.Fprintln(w, RenderField("Backend", info.BaseURL))
		if info.ConfigPath != "" {
			fmt.Fprintln(w, RenderField("Config", info.ConfigPath))
		}
		fmt.Fprintln(w, RenderField("Credentials", info.TokenSource))
		if info.TokenExpiry != nil {
			exp := info.TokenExpiry.Local().Format(time.RFC1123)
			if info.Expired {
				exp = WarningStyle.Render(exp + " (expired)")
			}
			fmt.Fprintln(w, RenderField("Token expires", exp))
		}
		if info.User == nil {
			fmt.Fprintln(w, RenderField("Session", DimStyle.Render("not logged in")))
			return
		}
		r.printUser(w, *info.User)
	})
}
