// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tokenstore keeps the bearer token and selected team id.
package tokenstore

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/logging"
)

// Keys used in both areas.
const (
	KeyToken  = "token"
	KeyTeamID = "team_id"
)

// Source identifies which area a credential was read from.
type Source int

const (
	SourceNone Source = iota
	SourceDurable
	SourceSession
)

// String returns the area name.
func (s Source) String() string {
	switch s {
	case SourceDurable:
		return "durable"
	case SourceSession:
		return "session"
	default:
		return "none"
	}
}

// ErrUnknownArea is returned when writing to SourceNone.
var ErrUnknownArea = errors.New("tokenstore: unknown area")

// =============================================================================
// STORE
// =============================================================================

// Store resolves credentials across the durable and session areas.
// Durable wins when both hold a value.
type Store struct {
	durable Area
	session Area
	log     *zap.Logger
}

// New creates a store over the given areas.
func New(durable, session Area, log *zap.Logger) *Store {
	return &Store{durable: durable, session: session, log: logging.OrNop(log)}
}

// Open creates a store with a sqlite durable area at path and a fresh
// in-memory session area.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	durable, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return New(durable, NewMemoryArea(), log), nil
}

// Close releases the durable area.
func (s *Store) Close() error {
	if c, ok := s.durable.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// AccessToken returns the bearer token. Empty values count as absent.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	token, _ := s.token(ctx)
	return token, token != ""
}

// Source reports which area the current token comes from.
func (s *Store) Source(ctx context.Context) Source {
	_, src := s.token(ctx)
	return src
}

func (s *Store) token(ctx context.Context) (string, Source) {
	if v, ok := s.read(ctx, s.durable, KeyToken); ok && v != "" {
		return v, SourceDurable
	}
	if v, ok := s.read(ctx, s.session, KeyToken); ok && v != "" {
		return v, SourceSession
	}
	return "", SourceNone
}

// TeamID returns the persisted team id. The first area holding the key
// decides; a value that is not an integer counts as absent.
func (s *Store) TeamID(ctx context.Context) (int, bool) {
	for _, area := range []Area{s.durable, s.session} {
		v, ok := s.read(ctx, area, KeyTeamID)
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			s.log.Warn("ignoring malformed team id", zap.String("value", v))
			return 0, false
		}
		return id, true
	}
	return 0, false
}

func (s *Store) read(ctx context.Context, area Area, key string) (string, bool) {
	v, ok, err := area.Get(ctx, key)
	if err != nil {
		s.log.Warn("credential read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// RememberToken writes the token to the durable area.
func (s *Store) RememberToken(ctx context.Context, token string) error {
	return s.durable.Set(ctx, KeyToken, token)
}

// RememberTeamID writes the team id to the durable area.
func (s *Store) RememberTeamID(ctx context.Context, id int) error {
	return s.durable.Set(ctx, KeyTeamID, strconv.Itoa(id))
}

// SetToken writes the token to the chosen area.
func (s *Store) SetToken(ctx context.Context, src Source, token string) error {
	area, err := s.area(src)
	if err != nil {
		return err
	}
	return area.Set(ctx, KeyToken, token)
}

// SetTeamID writes the team id to the chosen area.
func (s *Store) SetTeamID(ctx context.Context, src Source, id int) error {
	area, err := s.area(src)
	if err != nil {
		return err
	}
	return area.Set(ctx, KeyTeamID, strconv.Itoa(id))
}

func (s *Store) area(src Source) (Area, error) {
	switch src {
	case SourceDurable:
		return s.durable, nil
	case SourceSession:
		return s.session, nil
	}
	return nil, ErrUnknownArea
}

// Clear wipes both areas.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(s.durable.Clear(ctx), s.session.Clear(ctx))
}
