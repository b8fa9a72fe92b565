// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the ProSkillify backend.
//
// Every authenticated method reads the bearer token from Credentials at
// call time. Without a token the method returns a zero value and a nil
// error without touching the network: no session is an expected state,
// not a failure.
//
// # Failure Kinds
//
//   - *RequestError: non-2xx response, status and raw body inspectable
//   - *TransportError: network failure or undecodable body
//
// Classify maps any returned error onto an Outcome. The sentinels
// ErrUnauthorized, ErrForbidden, ErrNotFound and ErrServer match request
// failures through errors.Is.
//
// # Usage
//
//	client := api.New(cfg.API.BaseURL, store,
//	    api.WithTimeout(cfg.API.Timeout()),
//	    api.WithLogger(logger))
//
//	user, err := client.CurrentUser(ctx)
//	switch api.Classify(err) {
//	case api.OutcomeOK:
//	    if user == nil {
//	        // not logged in
//	    }
//	case api.OutcomeRequestFailure:
//	    // rejected token, bad input, ...
//	case api.OutcomeTransportFailure:
//	    // backend unreachable
//	}
package api
