// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// conversations_cmd.go - proskill conversations [list|create|rename|delete|messages].

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/ui/render"
	"github.com/jeranaias/proskill-tui/internal/util"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

func kindOf(p *ArgParser) model.Kind {
	if p.BoolFlag("training") {
		return model.KindTraining
	}
	return model.KindAssessment
}

// partnerFor returns the assistant or character a new conversation of kind
// is bound to: the --character flag, else the configured default.
func partnerFor(env *app.Env, kind model.Kind, p *ArgParser) (int, error) {
	if kind == model.KindTraining {
		return p.FlagInt("character", env.Config.Chat.CharacterID)
	}
	return env.Config.Chat.AssistantID, nil
}

func (r *Runner) conversations(ctx context.Context, env *app.Env, args Args) error {
	p := NewArgParser(args.Raw, "training", "yes")
	action := p.Subcommand()
	if action == "" {
		action = "list"
	}
	kind := kindOf(p)

	var err error
	switch action {
	case "list", "ls":
		err = r.convList(ctx, env, args, kind)
	case "create", "new":
		err = r.convCreate(ctx, env, args, kind, p)
	case "rename":
		err = r.convRename(ctx, env, args, kind, p)
	case "delete", "rm":
		err = r.convDelete(ctx, env, args, kind, p)
	case "messages", "show":
		err = r.convMessages(ctx, env, args, kind, p)
	default:
		err = &UsageError{Message: fmt.Sprintf(
			"unknown conversations action %q (want list, create, rename, delete or messages)", action)}
	}
	return wrap("conversations", action, err)
}

func (r *Runner) convList(ctx context.Context, env *app.Env, args Args, kind model.Kind) error {
	teamID, err := requireTeam(env)
	if err != nil {
		return err
	}
	list, err := env.Client.ListConversations(ctx, kind, teamID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []model.Conversation{}
	}
	return r.emit(args, CmdConversations, list, func(w io.Writer) {
		printConversations(w, list, 0)
	})
}

func printConversations(w io.Writer, list []model.Conversation, active int) {
	if len(list) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No conversations yet."))
		return
	}
	for _, c := range list {
		mark := "  "
		if c.ID == active {
			mark = SuccessStyle.Render("* ")
		}
		fmt.Fprintf(w, "%s%-6d %s\n", mark, c.ID, util.Truncate(c.DisplayTitle(), 60))
	}
}

func (r *Runner) convCreate(ctx context.Context, env *app.Env, args Args, kind model.Kind, p *ArgParser) error {
	teamID, err := requireTeam(env)
	if err != nil {
		return err
	}
	title, err := validate.Title(p.PositionalFrom(1))
	if err != nil {
		return err
	}
	partner, err := partnerFor(env, kind, p)
	if err != nil {
		return err
	}
	conv, err := env.Client.CreateConversation(ctx, kind, title, teamID, partner)
	if err != nil {
		return err
	}
	return r.emit(args, CmdConversations, conv, func(w io.Writer) {
		r.say(args, RenderSuccess(fmt.Sprintf("Created %s conversation %q (#%d)", kind, conv.DisplayTitle(), conv.ID)))
	})
}

func (r *Runner) convRename(ctx context.Context, env *app.Env, args Args, kind model.Kind, p *ArgParser) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	id, err := ParseID(p.Positional(1), "conversation id")
	if err != nil {
		return err
	}
	title, err := validate.Title(p.PositionalFrom(2))
	if err != nil {
		return err
	}
	if err := env.Client.RenameConversation(ctx, kind, id, title); err != nil {
		return err
	}
	conv := model.Conversation{ID: id, Title: title}
	return r.emit(args, CmdConversations, conv, func(w io.Writer) {
		r.say(args, RenderSuccess(fmt.Sprintf("Renamed #%d to %q", id, title)))
	})
}

func (r *Runner) convDelete(ctx context.Context, env *app.Env, args Args, kind model.Kind, p *ArgParser) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	id, err := ParseID(p.Positional(1), "conversation id")
	if err != nil {
		return err
	}
	if err := r.confirm(args, p.BoolFlag("yes"), fmt.Sprintf("delete %s conversation %d", kind, id)); err != nil {
		return err
	}
	if err := env.Client.DeleteConversation(ctx, kind, id); err != nil {
		return err
	}
	return r.emit(args, CmdConversations, map[string]int{"deleted": id}, func(w io.Writer) {
		r.say(args, RenderSuccess(fmt.Sprintf("Deleted conversation #%d", id)))
	})
}

func (r *Runner) convMessages(ctx context.Context, env *app.Env, args Args, kind model.Kind, p *ArgParser) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	id, err := ParseID(p.Positional(1), "conversation id")
	if err != nil {
		return err
	}
	msgs, err := env.Client.ListMessages(ctx, kind, id)
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return r.emit(args, CmdConversations, msgs, func(w io.Writer) {
		t := newTranscript(w, env)
		for _, m := range msgs {
			t.print(m)
		}
	})
}

// =============================================================================
// TRANSCRIPT OUTPUT
// =============================================================================

// transcript prints messages for the line commands and the REPL.
type transcript struct {
	w        io.Writer
	renderer *render.Renderer
	width    int
}

func newTranscript(w io.Writer, env *app.Env) *transcript {
	style := render.StyleNoTTY
	if ColorsEnabled() && isTerminal(w) {
		style = render.StyleDark
		if mode := env.Config.UI.Theme; mode == "light" {
			style = render.StyleLight
		}
	}
	return &transcript{
		w:        w,
		renderer: render.New(env.Config.UI, style),
		width:    terminalWidth(w),
	}
}

func (t *transcript) print(m model.Message) {
	if m.Role == model.RoleHuman {
		fmt.Fprintf(t.w, "%s %s\n\n", HumanStyle.Render(m.Role.DisplayName()+":"), m.Content)
		return
	}
	fmt.Fprintln(t.w, BotStyle.Render(m.Role.DisplayName()+":"))
	if body := strings.TrimRight(t.renderer.Markdown(m.Content, t.width), "\n"); body != "" {
		fmt.Fprintln(t.w, body)
	}
	if table := render.Payload(m, t.renderer.Width(t.width)); table != "" {
		fmt.Fprintln(t.w, table)
	}
	fmt.Fprintln(t.w)
}
