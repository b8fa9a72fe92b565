// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// proskill.
//
// With no arguments proskill starts the TUI. Every other command runs once
// against the backend and exits with a code from ExitCodeFor.
//
// # Key Types
//
//   - Command: Enumeration of all available commands
//   - Args: Global flags plus the raw command arguments
//   - ArgParser: Subcommand, positional and flag parsing for one command
//   - Runner: Dispatch over injectable streams and runtime constructors
//   - CommandError, UsageError: Structured failures mapped to exit codes
//   - JSONResponse: The --json output envelope
//
// # Usage
//
//	os.Exit(cli.Main(ctx, os.Args[1:]))
//
// # Exit Codes
//
//   - 0: success
//   - 1: general failure
//   - 2: usage or input validation
//   - 3: configuration
//   - 4: authentication, authorization or missing team
//   - 5: backend unreachable
package cli
