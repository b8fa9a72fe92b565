// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the ProSkillify backend.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleHuman Role = "human"
	RoleBot   Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleHuman:
		return "You"
	case RoleBot:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// PAYLOAD TYPE
// =============================================================================

// PayloadType classifies structured data attached to a bot reply.
type PayloadType string

const (
	PayloadNone  PayloadType = ""
	PayloadPlot  PayloadType = "PLOT"
	PayloadTable PayloadType = "TABLE"
)

// Valid reports whether the payload type is one the client knows how to show.
func (p PayloadType) Valid() bool {
	switch PayloadType(strings.ToUpper(string(p))) {
	case PayloadNone, PayloadPlot, PayloadTable:
		return true
	}
	return false
}

// DataPoint is one entry of a PLOT or TABLE payload.
// The backend sends both fields as strings (date is an ISO calendar date).
type DataPoint struct {
	Value string `json:"value"`
	Date  string `json:"date"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in a conversation transcript.
type Message struct {
	// ID is assigned by the backend; zero for locally appended messages.
	ID int `json:"id,omitempty"`

	// LocalID identifies a message inside one screen's list.
	LocalID string `json:"-"`

	Content   string      `json:"content"`
	Role      Role        `json:"role"`
	Type      PayloadType `json:"type,omitempty"`
	Data      []DataPoint `json:"data,omitempty"`
	CreatedAt string      `json:"created_at,omitempty"`
}

// NewHumanMessage creates a human-role message for optimistic display.
func NewHumanMessage(content string) Message {
	return Message{
		LocalID: generateID(),
		Content: content,
		Role:    RoleHuman,
	}
}

// NewBotMessage creates a bot-role message.
func NewBotMessage(content string) Message {
	return Message{
		LocalID: generateID(),
		Content: content,
		Role:    RoleBot,
	}
}

// WithPayload returns a copy of the message carrying structured data.
func (m Message) WithPayload(t PayloadType, data []DataPoint) Message {
	m.Type = t
	if len(data) > 0 {
		m.Data = append([]DataPoint(nil), data...)
	}
	return m
}

// HasPayload reports whether the message carries a PLOT or TABLE payload.
func (m Message) HasPayload() bool {
	return m.Type != PayloadNone && len(m.Data) > 0
}

// IsHuman returns true if this is a human message.
func (m Message) IsHuman() bool {
	return m.Role == RoleHuman
}

// IsBot returns true if this is a bot message.
func (m Message) IsBot() bool {
	return m.Role == RoleBot
}

// CloneMessages returns a deep copy of a message list.
func CloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	for i, m := range in {
		if m.Data != nil {
			m.Data = append([]DataPoint(nil), m.Data...)
		}
		out[i] = m
	}
	return out
}

// AssignLocalIDs fills LocalID on messages loaded from the backend.
func AssignLocalIDs(msgs []Message) {
	for i := range msgs {
		if msgs[i].LocalID == "" {
			msgs[i].LocalID = generateID()
		}
	}
}

func generateID() string {
	return uuid.NewString()
}

// =============================================================================
// CHAT RESPONSE
// =============================================================================

// ChatResponse is the body returned by the question-answering endpoints.
type ChatResponse struct {
	Completion string      `json:"completion"`
	Sources    []string    `json:"sources,omitempty"`
	Type       PayloadType `json:"type,omitempty"`
	Data       []DataPoint `json:"data,omitempty"`
}

// Message converts the response into the bot message shown in the transcript.
func (r ChatResponse) Message() Message {
	return NewBotMessage(r.Completion).WithPayload(r.Type, r.Data)
}
