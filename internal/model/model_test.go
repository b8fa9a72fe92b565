// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleHuman, "You"},
		{RoleBot, "Assistant"},
		{Role("system"), "system"},
	}
	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%q.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestNewMessages_HaveDistinctLocalIDs(t *testing.T) {
	a := NewHumanMessage("hi")
	b := NewBotMessage("hello")
	if a.LocalID == "" || b.LocalID == "" {
		t.Fatal("expected local ids to be assigned")
	}
	if a.LocalID == b.LocalID {
		t.Errorf("local ids collide: %s", a.LocalID)
	}
	if !a.IsHuman() || !b.IsBot() {
		t.Errorf("roles = %s, %s", a.Role, b.Role)
	}
}

func TestChatResponse_MessageCarriesPayload(t *testing.T) {
	var resp ChatResponse
	body := `{"completion":"Here is your trend","type":"PLOT","data":[{"value":"3","date":"2024-05-01"}]}`
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	msg := resp.Message()
	if msg.Role != RoleBot {
		t.Errorf("role = %s, want bot", msg.Role)
	}
	if !msg.HasPayload() {
		t.Fatal("expected payload")
	}
	if msg.Data[0].Date != "2024-05-01" {
		t.Errorf("date = %q", msg.Data[0].Date)
	}

	// Mutating the response must not leak into the message.
	resp.Data[0].Value = "99"
	if msg.Data[0].Value != "3" {
		t.Errorf("payload shares backing array with response")
	}
}

func TestPayloadType_Valid(t *testing.T) {
	for _, p := range []PayloadType{PayloadNone, PayloadPlot, PayloadTable, "plot"} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if PayloadType("CHART").Valid() {
		t.Error("CHART should not be valid")
	}
}

func TestCloneMessages(t *testing.T) {
	in := []Message{NewBotMessage("x").WithPayload(PayloadTable, []DataPoint{{Value: "1", Date: "2024-01-01"}})}
	out := CloneMessages(in)
	out[0].Data[0].Value = "2"
	if in[0].Data[0].Value != "1" {
		t.Error("CloneMessages did not deep copy data")
	}
	if CloneMessages(nil) != nil {
		t.Error("CloneMessages(nil) should be nil")
	}
}

// =============================================================================
// CONVERSATION / USER TESTS
// =============================================================================

func TestKind(t *testing.T) {
	if KindAssessment.PartnerField() != "assistant_id" {
		t.Errorf("assessment partner field = %s", KindAssessment.PartnerField())
	}
	if KindTraining.PartnerField() != "character_id" {
		t.Errorf("training partner field = %s", KindTraining.PartnerField())
	}

	k, err := ParseKind("training")
	if err != nil || k != KindTraining {
		t.Errorf("ParseKind(training) = %v, %v", k, err)
	}
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestIndexConversation(t *testing.T) {
	list := []Conversation{{ID: 3}, {ID: 7}}
	if IndexConversation(list, 7) != 1 {
		t.Error("expected index 1")
	}
	if IndexConversation(list, 9) != -1 {
		t.Error("expected -1")
	}
	if (Conversation{ID: 4}).DisplayTitle() != "Conversation 4" {
		t.Error("unexpected placeholder title")
	}
}

func TestUser_TeamLookup(t *testing.T) {
	u := &User{Teams: []Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}

	if team, ok := u.Team(2); !ok || team.Name != "B" {
		t.Errorf("Team(2) = %+v, %v", team, ok)
	}
	if _, ok := u.Team(5); ok {
		t.Error("Team(5) should be absent")
	}
	if first, ok := u.FirstTeam(); !ok || first.ID != 1 {
		t.Errorf("FirstTeam() = %+v, %v", first, ok)
	}

	var nilUser *User
	if _, ok := nilUser.FirstTeam(); ok {
		t.Error("nil user has no teams")
	}

	c := u.Clone()
	c.Teams[0].Name = "changed"
	if u.Teams[0].Name != "A" {
		t.Error("Clone shares team slice")
	}
}
