// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - error handling shared by every command.
//
// Commands always return errors; Main decides how to show them and which
// exit code to use.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/conversation"
	"github.com/jeranaias/proskill-tui/internal/session"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid usage, arguments or input
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates an authentication or authorization failure
	ExitAuthError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
)

// ErrNotLoggedIn is returned by commands that need a session when there is
// none.
var ErrNotLoggedIn = errors.New("not logged in (run 'proskill login')")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed command with context.
type CommandError struct {
	Command string // e.g. "teams"
	Action  string // e.g. "create"
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: %s", e.Command, describe(e.Err))
	}
	return fmt.Sprintf("%s %s: %s", e.Command, e.Action, describe(e.Err))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is a malformed command line.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// wrap attaches command context to err. A nil err stays nil.
func wrap(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// describe renders err for people: backend details and field messages
// instead of raw HTTP lines.
func describe(err error) string {
	var ve validate.Errors
	if errors.As(err, &ve) {
		return ve.Error()
	}
	switch api.Classify(err) {
	case api.OutcomeRequestFailure, api.OutcomeTransportFailure:
		return api.Message(err)
	}
	return err.Error()
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCodeFor maps an error onto a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	switch {
	case errors.As(err, &usage), errors.Is(err, validate.ErrInvalid):
		return ExitUsageError
	case errors.Is(err, config.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrForbidden),
		errors.Is(err, ErrNotLoggedIn), errors.Is(err, session.ErrNotMember),
		errors.Is(err, conversation.ErrNoTeam):
		return ExitAuthError
	case api.Classify(err) == api.OutcomeTransportFailure:
		return ExitNetworkError
	}
	return ExitGeneralError
}

// DisplayError writes err to w, as a JSON envelope when asJSON is set.
func DisplayError(w io.Writer, command string, err error, asJSON bool) {
	if err == nil {
		return
	}
	if asJSON {
		_ = NewJSONErrorResponse(command, err).Write(w)
		return
	}
	fmt.Fprintln(w, RenderError(err.Error()))
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w, DimStyle.Render("Run 'proskill help' for usage."))
	}
}
