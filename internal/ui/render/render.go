// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns bot replies into terminal text: markdown through
// glamour and PLOT/TABLE payloads as a date/value table.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/proskill-tui/internal/config"
	"github.com/jeranaias/proskill-tui/internal/model"
	"github.com/jeranaias/proskill-tui/internal/util"
)

// Style names accepted by Renderer.
const (
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

const minWidth = 20

// Renderer renders markdown at a given width. Glamour renderers are
// expensive to build, so one is cached per width and style.
type Renderer struct {
	mu       sync.Mutex
	markdown bool
	wrap     int
	style    string
	cache    map[int]*glamour.TermRenderer
}

// New creates a renderer from the ui config section.
func New(ui config.UIConfig, style string) *Renderer {
	r := &Renderer{}
	r.Configure(ui, style)
	return r
}

// Configure applies new settings and drops cached renderers when they
// change.
func (r *Renderer) Configure(ui config.UIConfig, style string) {
	if style == "" {
		style = StyleDark
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cache != nil && r.markdown == ui.Markdown && r.wrap == ui.WordWrap && r.style == style {
		return
	}
	r.markdown = ui.Markdown
	r.wrap = ui.WordWrap
	r.style = style
	r.cache = make(map[int]*glamour.TermRenderer)
}

// Enabled reports whether markdown rendering is on.
func (r *Renderer) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.markdown
}

// Width clamps avail to the configured word wrap.
func (r *Renderer) Width(avail int) int {
	r.mu.Lock()
	wrap := r.wrap
	r.mu.Unlock()
	w := avail
	if wrap > 0 && wrap < w {
		w = wrap
	}
	if w < minWidth {
		w = minWidth
	}
	return w
}

// Markdown renders s. It falls back to the raw text when markdown is off
// or glamour fails.
func (r *Renderer) Markdown(s string, avail int) string {
	width := r.Width(avail)
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.markdown {
		return s
	}

	tr, ok := r.cache[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return s
		}
		r.cache[width] = tr
	}

	out, err := tr.Render(s)
	if err != nil {
		return s
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// PAYLOADS
// =============================================================================

// Payload renders the PLOT or TABLE data of m as an aligned text table.
// It returns "" for messages without a payload.
func Payload(m model.Message, maxWidth int) string {
	if !m.HasPayload() {
		return ""
	}

	dateW, valueW := runewidth.StringWidth("Date"), runewidth.StringWidth("Value")
	for _, p := range m.Data {
		dateW = max(dateW, runewidth.StringWidth(p.Date))
		valueW = max(valueW, runewidth.StringWidth(p.Value))
	}
	// Border and padding take 7 columns: "| " + " | " + " |".
	if maxWidth > 0 && dateW+valueW+7 > maxWidth {
		valueW = max(5, maxWidth-dateW-7)
	}

	var b strings.Builder
	title := "Table"
	if strings.EqualFold(string(m.Type), string(model.PayloadPlot)) {
		title = "Plot data"
	}
	fmt.Fprintf(&b, "%s (%d points)\n", title, len(m.Data))
	sep := "+" + strings.Repeat("-", dateW+2) + "+" + strings.Repeat("-", valueW+2) + "+"
	b.WriteString(sep + "\n")
	fmt.Fprintf(&b, "| %s | %s |\n", util.PadRight("Date", dateW), util.PadRight("Value", valueW))
	b.WriteString(sep + "\n")
	for _, p := range m.Data {
		fmt.Fprintf(&b, "| %s | %s |\n", util.PadRight(p.Date, dateW), util.PadRight(p.Value, valueW))
	}
	b.WriteString(sep)
	return b.String()
}
