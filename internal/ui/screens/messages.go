// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"github.com/jeranaias/proskill-tui/internal/api"
	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/guard"
	"github.com/jeranaias/proskill-tui/internal/model"
)

// =============================================================================
// NAVIGATION & SESSION
// =============================================================================

// navigateMsg asks the root model to go to a location through the guard.
type navigateMsg struct {
	to guard.Location
}

// authChangedMsg carries an Auth notification into the update loop.
type authChangedMsg struct {
	user *model.User
}

// ConfigReloadedMsg is sent by the config watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type loginDoneMsg struct{ err error }

type registerDoneMsg struct{ err error }

type logoutDoneMsg struct{ err error }

// =============================================================================
// CONVERSATIONS
// =============================================================================

// Every conversation message carries its kind so the root model can route
// it to the right screen.

type chatInitDoneMsg struct {
	kind model.Kind
	err  error
}

type sendDoneMsg struct {
	kind model.Kind
	err  error
}

type historyLoadedMsg struct {
	kind model.Kind
}

type selectDoneMsg struct {
	kind model.Kind
	id   int
	err  error
}

type conversationCreatedMsg struct {
	kind model.Kind
	conv *model.Conversation
	err  error
}

type renameDoneMsg struct {
	kind model.Kind
	err  error
}

type deleteDoneMsg struct {
	kind model.Kind
	err  error
}

type charactersLoadedMsg struct {
	chars []model.Character
	err   error
}

type trainDoneMsg struct {
	resp *api.TrainResponse
	err  error
}

// =============================================================================
// TEAMS
// =============================================================================

type teamCreatedMsg struct {
	team *model.Team
	err  error
}

type teamSwitchedMsg struct {
	team *model.Team
	err  error
}

// =============================================================================
// TOASTS
// =============================================================================

type toastMsg struct {
	text  string
	isErr bool
}

type clearToastMsg struct {
	id int
}
