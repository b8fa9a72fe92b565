// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// teams_cmd.go - proskill teams [list|create|use].

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/conversation"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/util"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// TeamRow is one team in list output.
type TeamRow struct {
	model.Team
	Active bool `json:"active"`
}

func (r *Runner) teams(ctx context.Context, env *app.Env, args Args) error {
	p := NewArgParser(args.Raw)
	action := p.Subcommand()
	if action == "" {
		action = "list"
	}

	var err error
	switch action {
	case "list", "ls":
		err = r.teamsList(env, args)
	case "create", "new":
		err = r.teamsCreate(ctx, env, args, p)
	case "use", "switch":
		err = r.teamsUse(ctx, env, args, p)
	default:
		err = &UsageError{Message: fmt.Sprintf("unknown teams action %q (want list, create or use)", action)}
	}
	return wrap("teams", action, err)
}

func (r *Runner) teamsList(env *app.Env, args Args) error {
	u, err := requireUser(env)
	if err != nil {
		return err
	}
	activeID, _ := env.Session.Teams.ID()
	rows := make([]TeamRow, 0, len(u.Teams))
	for _, t := range u.Teams {
		rows = append(rows, TeamRow{Team: t, Active: t.ID == activeID})
	}
	return r.emit(args, CmdTeams, rows, func(w io.Writer) {
		if len(rows) == 0 {
			fmt.Fprintln(w, DimStyle.Render("No teams yet. Create one with 'proskill teams create NAME'."))
			return
		}
		for _, row := range rows {
			mark := "  "
			if row.Active {
				mark = SuccessStyle.Render("* ")
			}
			line := fmt.Sprintf("%s%-6d %s", mark, row.ID, util.PadRight(row.Name, 24))
			if row.Description != "" {
				line += "  " + DimStyle.Render(util.Truncate(row.Description, 40))
			}
			fmt.Fprintln(w, line)
		}
	})
}

func (r *Runner) teamsCreate(ctx context.Context, env *app.Env, args Args, p *ArgParser) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	form, err := validate.Team{Name: p.PositionalFrom(1), Description: p.Flag("description")}.Validate()
	if err != nil {
		return err
	}
	team, err := env.Client.CreateTeam(ctx, form.Name, form.Description)
	if err != nil {
		return err
	}
	if err := env.Session.Refresh(ctx); err != nil {
		return err
	}
	return r.emit(args, CmdTeams, team, func(w io.Writer) {
		r.say(args, RenderSuccess(fmt.Sprintf("Created team %s (#%d)", team.Name, team.ID)))
	})
}

func (r *Runner) teamsUse(ctx context.Context, env *app.Env, args Args, p *ArgParser) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	id, err := ParseID(p.Positional(1), "team id")
	if err != nil {
		return err
	}
	team, err := env.Session.UseTeam(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(args, CmdTeams, team, func(w io.Writer) {
		r.say(args, RenderSuccess(fmt.Sprintf("Active team is now %s (#%d)", team.Name, team.ID)))
	})
}

// requireTeam returns the active team id of a logged-in user.
func requireTeam(env *app.Env) (int, error) {
	if _, err := requireUser(env); err != nil {
		return 0, err
	}
	id, ok := env.Session.Teams.ID()
	if !ok {
		return 0, conversation.ErrNoTeam
	}
	return id, nil
}
