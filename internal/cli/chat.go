// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - the line-editing chat REPL.
//
// Command: chat
//
// Examples:
//   proskill chat                          Assessment chat (primes a new one)
//   proskill chat --conversation 12        Continue conversation 12
//   proskill chat --training --character 2 Training chat with character 2
//
// Interactive commands:
//   /help               Show available commands
//   /new [title]        Start a new conversation
//   /list               List conversations
//   /open ID            Switch to a conversation
//   /rename ID TITLE    Rename a conversation
//   /delete ID          Delete a conversation
//   /history            Reprint the transcript
//   /team [ID]          Show or switch the active team
//   /characters         List trainer characters
//   /quit               Exit
//   Ctrl+C              Cancel a pending reply, or exit at the prompt
//   Ctrl+D              Exit

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/conversation"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of user input per call. io.EOF ends the
// session.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader provides line editing and persistent input history.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader(historyFile string) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	r := &linerReader{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history with 0600 permissions and restores the terminal.
func (r *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// plainReader reads from a pipe or file.
type plainReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *plainReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *plainReader) Close() error { return nil }

func (r *Runner) newLineReader(env *app.Env) lineReader {
	if isTerminal(r.Stdin) && isTerminal(r.Stdout) {
		if dir, err := env.Config.DataDir(); err == nil {
			return newLinerReader(filepath.Join(dir, "chat_history"))
		}
	}
	return &plainReader{in: bufio.NewReader(r.Stdin), out: r.Stdout}
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is one REPL run.
type chatSession struct {
	env   *app.Env
	kind  model.Kind
	ctrl  *conversation.Controller
	out   io.Writer
	opts  conversation.Options
	trans *transcript
	shown int // messages already printed
}

func (r *Runner) chat(ctx context.Context, env *app.Env, args Args) error {
	if args.JSON {
		return &UsageError{Message: "chat is interactive and does not support --json"}
	}
	if _, err := requireTeam(env); err != nil {
		return err
	}
	p := NewArgParser(args.Raw, "training")
	kind := kindOf(p)

	opts := conversation.OptionsFromConfig(kind, env.Config)
	opts.Logger = env.Log.Named("chat")
	partner, err := partnerFor(env, kind, p)
	if err != nil {
		return err
	}
	opts.PartnerID = partner
	convID, err := p.FlagInt("conversation", 0)
	if err != nil {
		return err
	}

	s := &chatSession{
		env:   env,
		kind:  kind,
		ctrl:  conversation.New(kind, env.Client, env.Session.Teams, opts),
		out:   r.Stdout,
		opts:  opts,
		trans: newTranscript(r.Stdout, env),
	}
	defer func() { s.ctrl.Close() }()

	if !args.Quiet {
		fmt.Fprintln(r.Stdout, TitleStyle.Render("proskill "+kind.String()+" chat"))
		fmt.Fprintln(r.Stdout, DimStyle.Render("Type /help for commands, /quit to exit."))
		fmt.Fprintln(r.Stdout)
	}

	if convID != 0 {
		if err := s.ctrl.Select(ctx, convID); err != nil {
			return err
		}
	}
	if err := s.interruptible(ctx, s.ctrl.Initialize); err != nil {
		return err
	}
	s.flush()

	in := r.newLineReader(env)
	defer in.Close()

	prompt := HumanStyle.Render("you> ")
	for {
		line, err := in.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.Stdout)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
			return nil
		case strings.HasPrefix(line, "/"):
			quit, err := s.command(ctx, line)
			if err != nil {
				fmt.Fprintln(r.Stdout, RenderError(describe(err)))
			}
			if quit {
				return nil
			}
			continue
		}

		// The typed line is already on screen.
		s.shown++
		if err := s.interruptible(ctx, func(ctx context.Context) error {
			return s.ctrl.Send(ctx, line)
		}); err != nil {
			fmt.Fprintln(r.Stdout, RenderError(describe(err)))
		}
		s.flush()
	}
}

// interruptible runs fn with a context that Ctrl+C cancels.
func (s *chatSession) interruptible(ctx context.Context, fn func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	err := fn(ctx)
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(s.out, WarningStyle.Render("[Cancelled]"))
	}
	return err
}

// flush prints the messages that arrived since the last call.
func (s *chatSession) flush() {
	msgs := s.ctrl.Messages()
	if s.shown > len(msgs) {
		s.shown = len(msgs)
	}
	for _, m := range msgs[s.shown:] {
		s.trans.print(m)
	}
	s.shown = len(msgs)
}

// reprint shows the whole transcript again.
func (s *chatSession) reprint() {
	s.shown = 0
	s.flush()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const chatHelp = `Commands:
  /new [title]        Start a new conversation
  /list               List conversations
  /open ID            Switch to a conversation
  /rename ID TITLE    Rename a conversation
  /delete ID          Delete a conversation
  /history            Reprint the transcript
  /team [ID]          Show or switch the active team
  /characters         List trainer characters
  /quit               Exit`

// command runs one slash command. It reports whether the REPL should exit.
func (s *chatSession) command(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	name := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	switch name {
	case "/help", "/h", "/?":
		fmt.Fprintln(s.out, chatHelp)

	case "/quit", "/q", "/exit":
		return true, nil

	case "/new", "/n":
		title := rest
		if title == "" && s.kind == model.KindAssessment {
			title = s.env.Config.Chat.AssessmentTitle
		}
		if _, err := validate.Title(title); err != nil {
			return false, err
		}
		conv, err := s.ctrl.NewConversation(ctx, title, 0)
		if err != nil {
			return false, err
		}
		s.shown = 0
		fmt.Fprintln(s.out, RenderSuccess(fmt.Sprintf("Started %q (#%d)", conv.DisplayTitle(), conv.ID)))

	case "/list", "/ls":
		list := s.ctrl.LoadHistory(ctx)
		active, _ := s.ctrl.ConversationID()
		printConversations(s.out, list, active)

	case "/open", "/o":
		id, err := ParseID(arg(1), "conversation id")
		if err != nil {
			return false, err
		}
		if err := s.ctrl.Select(ctx, id); err != nil {
			return false, err
		}
		s.reprint()

	case "/rename":
		id, err := ParseID(arg(1), "conversation id")
		if err != nil {
			return false, err
		}
		title, err := validate.Title(strings.TrimSpace(strings.TrimPrefix(rest, arg(1))))
		if err != nil {
			return false, err
		}
		if err := s.ctrl.Rename(ctx, id, title); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, RenderSuccess(fmt.Sprintf("Renamed #%d to %q", id, title)))

	case "/delete", "/rm":
		id, err := ParseID(arg(1), "conversation id")
		if err != nil {
			return false, err
		}
		if err := s.ctrl.Delete(ctx, id); err != nil {
			return false, err
		}
		if _, ok := s.ctrl.ConversationID(); !ok {
			s.shown = 0
		}
		fmt.Fprintln(s.out, RenderSuccess(fmt.Sprintf("Deleted conversation #%d", id)))

	case "/history":
		s.reprint()

	case "/team":
		return false, s.team(ctx, arg(1))

	case "/characters", "/chars":
		chars, err := s.env.Client.ListCharacters(ctx)
		if err != nil {
			return false, err
		}
		printCharacters(s.out, chars)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

// team shows the active team or switches to id. Switching rebuilds the
// controller, since conversations belong to a team.
func (s *chatSession) team(ctx context.Context, id string) error {
	if id == "" {
		if t := s.env.Session.Teams.Team(); t != nil {
			fmt.Fprintln(s.out, RenderField("Active team", fmt.Sprintf("%s (#%d)", t.Name, t.ID)))
			return nil
		}
		fmt.Fprintln(s.out, DimStyle.Render("No active team."))
		return nil
	}
	n, err := ParseID(id, "team id")
	if err != nil {
		return err
	}
	team, err := s.env.Session.UseTeam(ctx, n)
	if err != nil {
		return err
	}

	opts := s.opts
	opts.Prime = false
	s.ctrl.Close()
	s.ctrl = conversation.New(s.kind, s.env.Client, s.env.Session.Teams, opts)
	s.shown = 0
	s.ctrl.LoadHistory(ctx)
	fmt.Fprintln(s.out, RenderSuccess(fmt.Sprintf("Active team is now %s (#%d)", team.Name, team.ID)))
	return nil
}

