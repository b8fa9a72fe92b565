// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// training_cmd.go - proskill characters and proskill train.

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/proskill-tui/internal/app"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/util"
)

func (r *Runner) characters(ctx context.Context, env *app.Env, args Args) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	chars, err := env.Client.ListCharacters(ctx)
	if err != nil {
		return err
	}
	if chars == nil {
		chars = []model.Character{}
	}
	return r.emit(args, CmdCharacters, chars, func(w io.Writer) {
		printCharacters(w, chars)
	})
}

func printCharacters(w io.Writer, chars []model.Character) {
	if len(chars) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No trainer characters available."))
		return
	}
	for _, c := range chars {
		line := fmt.Sprintf("  %-6d %s", c.ID, util.PadRight(c.Name, 24))
		if c.Description != "" {
			line += "  " + DimStyle.Render(util.Truncate(c.Description, 48))
		}
		fmt.Fprintln(w, line)
	}
}

func (r *Runner) train(ctx context.Context, env *app.Env, args Args) error {
	if _, err := requireUser(env); err != nil {
		return err
	}
	p := NewArgParser(args.Raw)
	id, err := ParseID(p.Positional(0), "assistant id")
	if err != nil {
		return err
	}
	resp, err := env.Client.TrainModel(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(args, CmdTrain, resp, func(w io.Writer) {
		msg := fmt.Sprintf("Model trained (%d chunks indexed)", resp.NumberChunks)
		if resp.Description != "" {
			msg += ": " + resp.Description
		}
		r.say(args, RenderSuccess(msg))
	})
}
