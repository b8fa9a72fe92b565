// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app assembles the runtime graph shared by the TUI and the line
// commands: config, logger, token store, API client and session state.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/conversation"
	"github.com/jeranaias/proskill-tui/internal/guard"
	"github.com/jeranaias/proskill-tui/internal/logging"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/session"
	"github.com/jeranaias/proskill-tui/internal/tokenstore"
)

// Options are the process-level overrides from the command line.
type Options struct {
	ConfigPath string
	APIURL     string
	Verbose    bool
}

// Env is one assembled runtime. Close releases it.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Log        *zap.Logger
	Store      *tokenstore.Store
	Client     *api.Client
	Session    *session.State
	Guard      *guard.Guard

	closers []func() error
}

// Open loads the configuration, opens the durable credential database and
// bootstraps the session.
func Open(ctx context.Context, opts Options) (*Env, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}

	logOpts, err := logging.FromConfig(cfg, opts.Verbose)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	dbPath, err := cfg.DurableDBPath()
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	store, err := tokenstore.Open(ctx, dbPath, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	env, err := Assemble(ctx, cfg, store, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	env.ConfigPath = path
	env.closers = append(env.closers, store.Close, func() error {
		_ = log.Sync()
		return nil
	})
	return env, nil
}

// Assemble wires a client and session around an already opened store.
// The caller keeps ownership of store and log.
func Assemble(ctx context.Context, cfg *config.Config, store *tokenstore.Store, log *zap.Logger) (*Env, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("app: config and store are required")
	}
	log = logging.OrNop(log)

	client := api.New(cfg.API.BaseURL, store,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithLogger(log.Named("api")),
	)

	state, err := session.Bootstrap(ctx, client, store, log.Named("session"))
	if err != nil {
		return nil, err
	}

	return &Env{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Client:  client,
		Session: state,
		Guard:   guard.New(state.Auth),
	}, nil
}

// Controller builds a conversation controller for kind bound to the
// session's active team.
func (e *Env) Controller(kind model.Kind) *conversation.Controller {
	opts := conversation.OptionsFromConfig(kind, e.Config)
	opts.Logger = e.Log.Named(kind.String())
	return conversation.New(kind, e.Client, e.Session.Teams, opts)
}

// Close releases the session and everything Open acquired.
func (e *Env) Close() error {
	e.Session.Close()
	var errs []error
	for _, c := range e.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
