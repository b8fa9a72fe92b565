// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a bearer token without the signing key.
// It is informational only; the client never rejects a token locally.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time // zero when the token has no exp claim
}

// Expired reports whether the exp claim is in the past relative to now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// InspectToken decodes the claims of a JWT bearer token without verifying
// its signature. Opaque (non-JWT) tokens return an error.
func InspectToken(raw string) (TokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("token is not a JWT: %w", err)
	}
	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
