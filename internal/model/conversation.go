// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "fmt"

// =============================================================================
// CONVERSATION KIND
// =============================================================================

// Kind selects one of the two parallel conversation tracks.
type Kind int

const (
	// KindAssessment is the skill-assessment chat with an assistant.
	KindAssessment Kind = iota
	// KindTraining is the agent-training chat with a trainer character.
	KindTraining
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAssessment:
		return "assessment"
	case KindTraining:
		return "training"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PartnerField is the JSON field naming the conversation partner on create.
func (k Kind) PartnerField() string {
	if k == KindTraining {
		return "character_id"
	}
	return "assistant_id"
}

// ParseKind converts a CLI/config string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "assessment", "chat":
		return KindAssessment, nil
	case "training", "trainer":
		return KindTraining, nil
	}
	return KindAssessment, fmt.Errorf("unknown conversation kind %q", s)
}

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a titled thread of messages owned by a team.
type Conversation struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	TeamID    int    `json:"team_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DisplayTitle returns the title or a placeholder for untitled threads.
func (c Conversation) DisplayTitle() string {
	if c.Title == "" {
		return fmt.Sprintf("Conversation %d", c.ID)
	}
	return c.Title
}

// IndexConversation returns the position of id in list, or -1.
func IndexConversation(list []Conversation, id int) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
