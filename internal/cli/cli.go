// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for proskill.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdStatus
	CmdTeams
	CmdConversations
	CmdCharacters
	CmdTrain
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:           "tui",
	CmdChat:          "chat",
	CmdLogin:         "login",
	CmdRegister:      "register",
	CmdLogout:        "logout",
	CmdWhoami:        "whoami",
	CmdStatus:        "status",
	CmdTeams:         "teams",
	CmdConversations: "conversations",
	CmdCharacters:    "characters",
	CmdTrain:         "train",
	CmdConfig:        "config",
	CmdVersion:       "version",
	CmdHelp:          "help",
}

// String returns the command name.
func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Verbose    bool
	Quiet      bool
	APIURL     string
	ConfigPath string

	// Raw holds the arguments after the command name.
	Raw []string
}

const usageText = `proskill - terminal client for ProSkillify

Practise and assess professional skills with AI-driven conversations.

Usage:
  proskill                         Start the TUI (default)
  proskill tui [--screen S]        Start the TUI on chat, training or teams
  proskill chat [flags]            Line-editing chat REPL
      --training                   Use a training conversation
      --conversation ID            Continue an existing conversation
      --character ID               Trainer character for new training chats
  proskill login [--email E] [--no-remember]
  proskill register [--name N] [--email E]
  proskill logout
  proskill whoami                  Show the logged-in user and active team
  proskill status                  Show backend, credential and token state
  proskill teams [list]            List your teams
  proskill teams create NAME [--description D]
  proskill teams use ID            Make ID the active team
  proskill conversations [list] [--training]
  proskill conversations create TITLE [--training] [--character ID]
  proskill conversations rename ID TITLE [--training]
  proskill conversations delete ID [--training] [--yes]
  proskill conversations messages ID [--training]
  proskill characters              List trainer characters
  proskill train ASSISTANT_ID      Train an assistant model
  proskill config [show|path|set KEY VALUE]
  proskill version
  proskill help

Global flags:
  --json             Machine-readable output
  -v, --verbose      Debug logging to stderr
  -q, --quiet        Less output
  --api-url URL      Override api.base_url
  --config PATH      Config file (default ~/.proskill/config.toml)

Environment:
  PROSKILL_API_BASE_URL, PROSKILL_LOG_LEVEL and friends override the config
  file; see 'proskill config show' for every key.
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// VersionInfo is the version payload.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// CurrentVersion returns the build information.
func CurrentVersion() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// =============================================================================
// PARSING
// =============================================================================

// Parse splits argv (without the program name) into a command and its
// arguments. Global flags may appear anywhere.
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}

	if len(remaining) == 0 {
		return CmdTUI, args, nil
	}

	name := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]

	switch name {
	case "tui", "ui":
		return CmdTUI, args, nil
	case "chat":
		return CmdChat, args, nil
	case "login":
		return CmdLogin, args, nil
	case "register", "signup":
		return CmdRegister, args, nil
	case "logout":
		return CmdLogout, args, nil
	case "whoami", "me":
		return CmdWhoami, args, nil
	case "status", "s":
		return CmdStatus, args, nil
	case "teams", "team":
		return CmdTeams, args, nil
	case "conversations", "conversation", "convs":
		return CmdConversations, args, nil
	case "characters":
		return CmdCharacters, args, nil
	case "train":
		return CmdTrain, args, nil
	case "config":
		return CmdConfig, args, nil
	case "version", "--version", "-V":
		return CmdVersion, args, nil
	case "help", "--help", "-h":
		return CmdHelp, args, nil
	}
	return CmdHelp, args, &UsageError{Message: fmt.Sprintf("unknown command %q", name)}
}

// parseGlobalFlags pulls the global flags out of args wherever they are.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch name {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--api-url", "--config":
			if !hasValue {
				if i+1 >= len(args) {
					return nil, parsed, &UsageError{Message: name + " requires a value"}
				}
				i++
				value = args[i]
			}
			if name == "--api-url" {
				parsed.APIURL = value
			} else {
				parsed.ConfigPath = value
			}
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed, nil
}
