// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/config"
)

// Run starts the TUI and blocks until it exits. Edits to the config file
// are picked up while it runs.
func Run(ctx context.Context, d Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, d)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if d.Env.ConfigPath != "" {
		log := d.Env.Log.Named("config")
		w, err := config.NewWatcher(d.Env.ConfigPath,
			func(cfg *config.Config) { p.Send(ConfigReloadedMsg{Config: cfg}) },
			func(err error) { log.Warn("config reload failed", zap.Error(err)) },
		)
		if err != nil {
			log.Warn("config watcher disabled", zap.Error(err))
		} else {
			go w.Run(ctx)
		}
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
