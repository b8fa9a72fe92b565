// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds who is logged in and which team is active.
//
// # Key Types
//
//   - Auth: the current user, with change notifications
//   - Teams: the active team
//   - State: both holders plus the operations that change them
//
// # Usage
//
// Resolve the session once at startup and hand the State to screens:
//
//	state, err := session.Bootstrap(ctx, client, store, logger)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if !state.Auth.IsAuthenticated() {
//	    // show the login screen
//	}
//
// The user changes only at bootstrap, after LoginAs or RegisterAs, and on
// Logout, which clears both token areas and bootstraps again.
package session
