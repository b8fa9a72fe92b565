// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate checks form input before it is sent to the backend.
package validate

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/jeranaias/proskill-tui/internal/util"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid input")

// Error is a single field failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

// Is matches ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Errors collects field failures in form order.
type Errors []*Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is matches ErrInvalid.
func (es Errors) Is(target error) bool {
	return target == ErrInvalid && len(es) > 0
}

// Field returns the message for field, or "".
func (es Errors) Field(name string) string {
	for _, e := range es {
		if e.Field == name {
			return e.Message
		}
	}
	return ""
}

// err returns es as an error, nil when empty.
func (es Errors) err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

func (es *Errors) add(field, msg string) {
	*es = append(*es, &Error{Field: field, Message: msg})
}

func (es *Errors) required(field, value string) bool {
	if value == "" {
		es.add(field, "is required")
		return false
	}
	return true
}

func (es *Errors) email(value string) {
	if !es.required("email", value) {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		es.add("email", "is not a valid address")
	}
}

// =============================================================================
// FORMS
// =============================================================================

// Login is the login form.
type Login struct {
	Email    string
	Password string
}

// Normalize trims and NFC-normalises the email. Passwords are left as typed.
func (f Login) Normalize() Login {
	f.Email = util.NormalizeInput(f.Email)
	return f
}

// Validate normalises the form and checks it.
func (f Login) Validate() (Login, error) {
	f = f.Normalize()
	var es Errors
	es.email(f.Email)
	es.required("password", f.Password)
	return f, es.err()
}

// Register is the registration form.
type Register struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Normalize trims and NFC-normalises the name and email.
func (f Register) Normalize() Register {
	f.Name = util.NormalizeInput(f.Name)
	f.Email = util.NormalizeInput(f.Email)
	return f
}

// Validate normalises the form and checks it.
func (f Register) Validate() (Register, error) {
	f = f.Normalize()
	var es Errors
	es.required("name", f.Name)
	es.email(f.Email)
	if es.required("password", f.Password) && f.Password != f.ConfirmPassword {
		es.add("confirm_password", "does not match password")
	}
	return f, es.err()
}

// Team is the create-team form.
type Team struct {
	Name        string
	Description string
}

// Validate normalises the form and checks it.
func (f Team) Validate() (Team, error) {
	f.Name = util.NormalizeInput(f.Name)
	f.Description = util.NormalizeInput(f.Description)
	var es Errors
	es.required("name", f.Name)
	return f, es.err()
}

// Title checks a conversation title.
func Title(s string) (string, error) {
	s = util.NormalizeInput(s)
	var es Errors
	es.required("title", s)
	return s, es.err()
}
