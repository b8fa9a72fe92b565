// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels matched by *RequestError via errors.Is.
var (
	// ErrUnauthorized indicates the backend rejected the credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated user lacks access (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrServer indicates a 5xx response.
	ErrServer = errors.New("server error")
)

// =============================================================================
// REQUEST FAILURE
// =============================================================================

// RequestError is a non-2xx response. The raw body is kept for inspection.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if d := e.Detail(); d != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, d)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// Is maps the status code onto the package sentinels.
func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// Detail extracts the human-readable message from a FastAPI style body
// ({"detail": "..."} or {"description": "..."}). Validation errors carry a
// list under "detail"; their messages are joined.
func (e *RequestError) Detail() string {
	var body struct {
		Detail      json.RawMessage `json:"detail"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	if body.Description != "" {
		return body.Description
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// =============================================================================
// TRANSPORT FAILURE
// =============================================================================

// TransportError is a network-level failure or an undecodable response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Outcome tags the result of an API call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRequestFailure
	OutcomeTransportFailure
	// OutcomeOther covers local failures such as credential storage errors.
	OutcomeOther
)

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRequestFailure:
		return "request failure"
	case OutcomeTransportFailure:
		return "transport failure"
	default:
		return "other"
	}
}

// Classify tags err so callers can branch on the failure kind.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return OutcomeRequestFailure
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return OutcomeTransportFailure
	}
	return OutcomeOther
}

// StatusCode returns the HTTP status of a request failure, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// Message returns a short description of err fit for showing to a user.
func Message(err error) string {
	var reqErr *RequestError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &reqErr):
		if d := reqErr.Detail(); d != "" {
			return d
		}
		return fmt.Sprintf("request failed (HTTP %d)", reqErr.StatusCode)
	case Classify(err) == OutcomeTransportFailure:
		return "could not reach the server"
	}
	return err.Error()
}
