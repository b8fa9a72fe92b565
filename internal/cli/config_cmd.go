// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - proskill config [show|path|set KEY VALUE].

package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jeranaias/proskill-tui/internal/config"
)

func (r *Runner) configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.Path()
}

func (r *Runner) configCmd(args Args) error {
	p := NewArgParser(args.Raw)
	path, err := r.configPath(args)
	if err != nil {
		return err
	}

	switch action := p.Subcommand(); action {
	case "", "show":
		// show reports the effective values, environment included.
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if args.APIURL != "" {
			cfg.API.BaseURL = args.APIURL
		}
		return r.emit(args, CmdConfig, cfg, func(w io.Writer) {
			fmt.Fprintln(w, DimStyle.Render("# "+path))
			fmt.Fprint(w, cfg.String())
		})

	case "path":
		return r.emit(args, CmdConfig, map[string]string{"path": path}, func(w io.Writer) {
			fmt.Fprintln(w, path)
		})

	case "keys":
		keys := config.Keys()
		sort.Strings(keys)
		return r.emit(args, CmdConfig, keys, func(w io.Writer) {
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
		})

	case "get":
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		key := p.Positional(1)
		v, err := cfg.Get(key)
		if err != nil {
			return &UsageError{Message: err.Error()}
		}
		return r.emit(args, CmdConfig, map[string]interface{}{key: v}, func(w io.Writer) {
			fmt.Fprintln(w, v)
		})

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || p.PositionalCount() < 3 {
			return &UsageError{Message: "usage: proskill config set KEY VALUE"}
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return &UsageError{Message: err.Error()}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		v, _ := cfg.Get(key)
		return r.emit(args, CmdConfig, map[string]interface{}{key: v}, func(w io.Writer) {
			r.say(args, RenderSuccess(fmt.Sprintf("%s = %v", key, v)))
		})

	default:
		return &UsageError{Message: fmt.Sprintf("unknown config action %q (want show, path, keys, get or set)", action)}
	}
}
