// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/model"
)

func TestRenderer_MarkdownDisabledReturnsRaw(t *testing.T) {
	r := New(config.UIConfig{Markdown: false, WordWrap: 80}, StyleNoTTY)
	assert.Equal(t, "**bold**", r.Markdown("**bold**", 100))
	assert.False(t, r.Enabled())
}

func TestRenderer_MarkdownStripsSyntax(t *testing.T) {
	r := New(config.UIConfig{Markdown: true, WordWrap: 80}, StyleDark)
	out := r.Markdown("# Score\n\nYou did **well**.", 100)
	assert.Contains(t, out, "Score")
	assert.Contains(t, out, "well")
	assert.NotContains(t, out, "**")
}

func TestRenderer_Width(t *testing.T) {
	r := New(config.UIConfig{Markdown: true, WordWrap: 60}, StyleNoTTY)
	assert.Equal(t, 60, r.Width(120))
	assert.Equal(t, 40, r.Width(40))
	assert.Equal(t, minWidth, r.Width(5))

	r.Configure(config.UIConfig{Markdown: true, WordWrap: 0}, StyleNoTTY)
	assert.Equal(t, 120, r.Width(120))
}

func TestPayload(t *testing.T) {
	msg := model.NewBotMessage("here").WithPayload(model.PayloadTable, []model.DataPoint{
		{Date: "2024-01-01", Value: "3"},
		{Date: "2024-01-02", Value: "42"},
	})
	out := Payload(msg, 0)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Table (2 points)", lines[0])
	assert.Contains(t, out, "| 2024-01-02 | 42    |")
	for _, l := range lines[1:] {
		assert.Equal(t, len(lines[1]), len(l), "row %q is misaligned", l)
	}
}

func TestPayload_PlotTitleAndEmpty(t *testing.T) {
	plot := model.NewBotMessage("").WithPayload(model.PayloadPlot, []model.DataPoint{{Date: "d", Value: "v"}})
	assert.True(t, strings.HasPrefix(Payload(plot, 0), "Plot data"))
	assert.Empty(t, Payload(model.NewBotMessage("plain"), 0))
}
