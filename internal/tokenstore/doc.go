// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tokenstore keeps the bearer token and selected team id.
//
// Two key-value areas hold the "token" and "team_id" keys: a durable area
// (sqlite, survives restarts, schema managed by goose) and a session area
// (memory, gone when the process exits). Reads resolve durable first,
// then session, otherwise absent. No expiry checking is done here; an
// expired token is only discovered when the backend rejects it.
//
// # Key Types
//
//   - Store: Resolution across both areas
//   - Area: Key-value area interface
//   - SQLiteArea, MemoryArea: The two implementations
//
// # Usage
//
//	store, err := tokenstore.Open(ctx, dbPath, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if token, ok := store.AccessToken(ctx); ok {
//	    // authenticated
//	}
package tokenstore
