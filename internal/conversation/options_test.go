// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/model"
)

func defaultConfig() *config.Config {
	return config.Default()
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Chat.CharacterID = 4

	a := OptionsFromConfig(model.KindAssessment, cfg)
	assert.True(t, a.Prime)
	assert.Equal(t, 1, a.PartnerID)
	assert.Equal(t, "Skill Assessment", a.PrimeTitle)

	tr := OptionsFromConfig(model.KindTraining, cfg)
	assert.False(t, tr.Prime)
	assert.Equal(t, 4, tr.PartnerID)
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 1, o.PartnerID)
	assert.Equal(t, "Error processing your request", o.ErrorReply)
	assert.Equal(t, "Hello, I'm ready to start the skill assessment.", o.PrimeMessage)
}
