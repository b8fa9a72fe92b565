// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/proskill-tui/internal/ui/styles"
	"github.com/jeranaias/proskill-tui/internal/validate"
)

// field is one labelled text input of a form.
type field struct {
	name  string // validation field name
	label string
	input textinput.Model
}

func newField(name, label, placeholder string, password bool) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 36
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return field{name: name, label: label, input: ti}
}

// form cycles focus over its fields and then over a number of buttons.
// Focus indexes past the last field address the buttons.
type form struct {
	fields  []field
	buttons []string
	focus   int
	errs    validate.Errors
	err     string
}

func newForm(buttons []string, fields ...field) *form {
	f := &form{fields: fields, buttons: buttons}
	f.setFocus(0)
	return f
}

func (f *form) size() int { return len(f.fields) + len(f.buttons) }

func (f *form) setFocus(i int) tea.Cmd {
	n := f.size()
	if n == 0 {
		return nil
	}
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.fields {
		if j == f.focus {
			cmd = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// button returns the focused button index, or -1 on a field.
func (f *form) button() int {
	if f.focus < len(f.fields) {
		return -1
	}
	return f.focus - len(f.fields)
}

func (f *form) value(name string) string {
	for _, fl := range f.fields {
		if fl.name == name {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) set(name, v string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].input.SetValue(v)
		}
	}
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	f.errs, f.err = nil, ""
	f.setFocus(0)
}

// fail records err: field errors go next to their inputs, everything else
// at the bottom of the form.
func (f *form) fail(err error, describe func(error) string) {
	f.errs, f.err = nil, ""
	if err == nil {
		return
	}
	var errs validate.Errors
	if errors.As(err, &errs) {
		f.errs = errs
		return
	}
	f.err = describe(err)
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.fields) {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view(theme *styles.Theme, title string, extra ...string) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render(title))
	b.WriteString("\n")
	for i, fl := range f.fields {
		label := theme.FormLabel.Render(fl.label)
		if i == f.focus {
			label = theme.FormFocused.Render(fl.label)
		}
		b.WriteString(label + "\n")
		b.WriteString(fl.input.View() + "\n")
		if msg := f.errs.Field(fl.name); msg != "" {
			b.WriteString(theme.FormError.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	for _, e := range extra {
		b.WriteString(e + "\n")
	}
	var btns []string
	for i, name := range f.buttons {
		if f.button() == i {
			btns = append(btns, theme.ButtonActive.Render(name))
		} else {
			btns = append(btns, theme.Button.Render(name))
		}
	}
	b.WriteString(strings.Join(btns, " "))
	if f.err != "" {
		b.WriteString("\n" + theme.FormError.Render(f.err))
	}
	return theme.Form.Render(b.String())
}
