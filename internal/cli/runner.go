// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runner.go - command dispatch.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/guard"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/ui/screens"
	"github.com/jeranaias/proskill-tui/internal/ui/styles"
)

// Runner executes parsed commands. The zero value is not usable; build one
// with NewRunner and override fields in tests.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Open assembles the runtime for commands that talk to the backend.
	Open func(ctx context.Context, opts app.Options) (*app.Env, error)

	// TUI runs the full-screen interface.
	TUI func(ctx context.Context, d screens.Deps) error
}

// NewRunner returns a runner bound to the process's standard streams.
func NewRunner() *Runner {
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Open:   app.Open,
		TUI:    screens.Run,
	}
}

// Main parses argv, runs the command and returns the exit code.
func Main(ctx context.Context, argv []string) int {
	return NewRunner().Main(ctx, argv)
}

// Main parses argv, runs the command, reports any failure and returns the
// exit code.
func (r *Runner) Main(ctx context.Context, argv []string) int {
	cmd, args, err := Parse(argv)
	if err == nil {
		err = r.Run(ctx, cmd, args)
	}
	if err != nil {
		out := r.Stderr
		if args.JSON {
			out = r.Stdout
		}
		DisplayError(out, cmd.String(), err, args.JSON)
	}
	return ExitCodeFor(err)
}

// Run executes one command.
func (r *Runner) Run(ctx context.Context, cmd Command, args Args) error {
	switch cmd {
	case CmdHelp:
		PrintUsage(r.Stdout)
		return nil
	case CmdVersion:
		return r.emit(args, cmd, CurrentVersion(), func(w io.Writer) {
			v := CurrentVersion()
			fmt.Fprintf(w, "proskill %s (%s, built %s, %s %s)\n",
				v.Version, v.GitCommit, v.BuildDate, v.GoVersion, v.Platform)
		})
	case CmdConfig:
		return wrap("config", "", r.configCmd(args))
	}

	// Line commands log to stderr with -v; the TUI owns the terminal.
	verbose := args.Verbose && cmd != CmdTUI
	env, err := r.Open(ctx, app.Options{
		ConfigPath: args.ConfigPath,
		APIURL:     args.APIURL,
		Verbose:    verbose,
	})
	if err != nil {
		return wrap(cmd.String(), "", err)
	}
	defer env.Close()

	switch cmd {
	case CmdTUI:
		return wrap("tui", "", r.tui(ctx, env, args))
	case CmdChat:
		return wrap("chat", "", r.chat(ctx, env, args))
	case CmdLogin:
		return wrap("login", "", r.login(ctx, env, args))
	case CmdRegister:
		return wrap("register", "", r.register(ctx, env, args))
	case CmdLogout:
		return wrap("logout", "", r.logout(ctx, env, args))
	case CmdWhoami:
		return wrap("whoami", "", r.whoami(env, args))
	case CmdStatus:
		return wrap("status", "", r.status(ctx, env, args))
	case CmdTeams:
		return r.teams(ctx, env, args)
	case CmdConversations:
		return r.conversations(ctx, env, args)
	case CmdCharacters:
		return wrap("characters", "", r.characters(ctx, env, args))
	case CmdTrain:
		return wrap("train", "", r.train(ctx, env, args))
	}
	return &UsageError{Message: fmt.Sprintf("unsupported command %s", cmd)}
}

// emit writes data as a JSON envelope or calls human to print it.
func (r *Runner) emit(args Args, cmd Command, data interface{}, human func(w io.Writer)) error {
	if args.JSON {
		return NewJSONResponse(cmd.String(), data).Write(r.Stdout)
	}
	if human != nil {
		human(r.Stdout)
	}
	return nil
}

// say prints a one-line human notice unless --quiet or --json is set.
func (r *Runner) say(args Args, line string) {
	if args.Quiet || args.JSON {
		return
	}
	fmt.Fprintln(r.Stdout, line)
}

// requireUser returns the logged-in user or ErrNotLoggedIn.
func requireUser(env *app.Env) (*model.User, error) {
	u, ok := env.Session.Auth.User()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// tui starts the full-screen interface on the requested screen.
func (r *Runner) tui(ctx context.Context, env *app.Env, args Args) error {
	p := NewArgParser(args.Raw)
	start := guard.RouteChat
	if s := p.Flag("screen"); s != "" {
		route, ok := guard.ParseRoute(s)
		if !ok || !route.Protected() {
			return &UsageError{Message: fmt.Sprintf("unknown screen %q (want chat, training or teams)", s)}
		}
		start = route
	}
	return r.TUI(ctx, screens.Deps{
		Env:     env,
		Theme:   styles.NewTheme(env.Config.UI.Theme),
		Start:   start,
		Version: Version,
	})
}
