// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the ProSkillify
// backend: users, teams, conversations, messages and trainer characters.
//
// # Key Types
//
//   - User: Authenticated account with its ordered team memberships
//   - Team: Tenant grouping that scopes conversations
//   - Conversation: Titled thread owned by a team
//   - Message: Single transcript entry (human or bot) with optional payload
//   - Kind: Conversation track (assessment or training)
//
// # Usage
//
// Build the transcript entries a chat screen appends:
//
//	msgs := []model.Message{model.NewHumanMessage("hello")}
//	msgs = append(msgs, model.NewBotMessage(resp.Completion).WithPayload(resp.Type, resp.Data))
//
// Look up a team membership:
//
//	if team, ok := user.Team(42); ok {
//	    fmt.Println(team.Name)
//	}
package model
