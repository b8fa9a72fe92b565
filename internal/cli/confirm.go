// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - confirmation for destructive commands.

package cli

import (
	"errors"
	"fmt"
	"strings"
)

// errCancelled is returned when the user declines a confirmation.
var errCancelled = errors.New("cancelled")

// confirm asks before a destructive action. --yes skips the prompt; JSON
// mode and non-terminal input require it.
//
// Example:
//
//	if err := r.confirm(args, p.BoolFlag("yes"), "delete conversation 12"); err != nil {
//	    return err
//	}
func (r *Runner) confirm(args Args, yes bool, action string) error {
	if yes {
		return nil
	}
	if args.JSON {
		return &UsageError{Message: "confirmation required: pass --yes in JSON mode"}
	}
	if !isTerminal(r.Stdin) {
		return &UsageError{Message: "confirmation required but stdin is not a terminal; pass --yes"}
	}

	answer, err := NewPrompter(r.Stdin, r.Stderr).Line(fmt.Sprintf("Are you sure you want to %s? [y/N]: ", action))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errCancelled
}
