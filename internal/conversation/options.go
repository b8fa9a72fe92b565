// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"go.uber.org/zap"

	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/model"
)

// Options configures a Controller.
type Options struct {
	// PartnerID is the assistant id (assessment) or character id (training)
	// new conversations are bound to.
	PartnerID int

	// Prime makes Initialize open a conversation and send PrimeMessage.
	Prime        bool
	PrimeTitle   string
	PrimeMessage string

	// ErrorReply is the bot message appended when a send fails.
	ErrorReply string

	Logger *zap.Logger
}

// DefaultOptions returns the options for kind under the default config.
func DefaultOptions(kind model.Kind) Options {
	return OptionsFromConfig(kind, config.Default())
}

// OptionsFromConfig derives controller options from the chat section.
// Only the assessment track primes itself.
func OptionsFromConfig(kind model.Kind, cfg *config.Config) Options {
	chat := cfg.Chat
	opts := Options{
		PartnerID:    chat.AssistantID,
		PrimeTitle:   chat.AssessmentTitle,
		PrimeMessage: chat.PrimingMessage,
		ErrorReply:   chat.ErrorReply,
	}
	switch kind {
	case model.KindTraining:
		opts.PartnerID = chat.CharacterID
	default:
		opts.Prime = chat.AutoPrime
	}
	return opts
}

func (o Options) withDefaults() Options {
	d := config.Default().Chat
	if o.PartnerID == 0 {
		o.PartnerID = d.AssistantID
	}
	if o.PrimeTitle == "" {
		o.PrimeTitle = d.AssessmentTitle
	}
	if o.PrimeMessage == "" {
		o.PrimeMessage = d.PrimingMessage
	}
	if o.ErrorReply == "" {
		o.ErrorReply = d.ErrorReply
	}
	return o
}
