// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kouponize121/Jarvis-AI/internal/ui/styles"
	"github.com/kouponize121/Jarvis-AI/internal/validate"
)

// =============================================================================
// FORM
// =============================================================================

// Field is one labelled text input. Name matches the JSON name used in
// validation errors.
type Field struct {
	Name  string
	Label string
	Hint  string
	Input textinput.Model
	Err   string
}

// NewField creates a field. Secret fields echo bullets.
func NewField(name, label, placeholder string, secret bool) Field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return Field{Name: name, Label: label, Input: ti}
}

// WithHint adds a muted line under the field.
func (f Field) WithHint(hint string) Field {
	f.Hint = hint
	return f
}

// Form is a vertical list of fields with one focused input.
type Form struct {
	Fields []Field
	focus  int
}

// NewForm creates a form focused on its first field.
func NewForm(fields ...Field) Form {
	f := Form{Fields: fields}
	if len(f.Fields) > 0 {
		f.Fields[0].Input.Focus()
	}
	return f
}

// Focused returns the index of the focused field, or -1 when blurred.
func (f Form) Focused() int {
	return f.focus
}

// FocusIndex moves focus to field i.
func (f *Form) FocusIndex(i int) tea.Cmd {
	if len(f.Fields) == 0 {
		return nil
	}
	for j := range f.Fields {
		f.Fields[j].Input.Blur()
	}
	if i < 0 {
		i = len(f.Fields) - 1
	}
	f.focus = i % len(f.Fields)
	return f.Fields[f.focus].Input.Focus()
}

// Next focuses the following field, wrapping around.
func (f *Form) Next() tea.Cmd {
	return f.FocusIndex(f.focus + 1)
}

// Prev focuses the preceding field, wrapping around.
func (f *Form) Prev() tea.Cmd {
	return f.FocusIndex(f.focus - 1)
}

// Blur removes focus from every field.
func (f *Form) Blur() {
	for j := range f.Fields {
		f.Fields[j].Input.Blur()
	}
	f.focus = -1
}

// Last reports whether the last field has focus.
func (f Form) Last() bool {
	return f.focus == len(f.Fields)-1
}

func (f Form) index(name string) int {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// Value returns the trimmed value of the named field.
func (f Form) Value(name string) string {
	if i := f.index(name); i >= 0 {
		return strings.TrimSpace(f.Fields[i].Input.Value())
	}
	return ""
}

// Raw returns the untrimmed value of the named field, for passwords.
func (f Form) Raw(name string) string {
	if i := f.index(name); i >= 0 {
		return f.Fields[i].Input.Value()
	}
	return ""
}

// SetValue replaces the value of the named field.
func (f *Form) SetValue(name, value string) {
	if i := f.index(name); i >= 0 {
		f.Fields[i].Input.SetValue(value)
	}
}

// Reset empties every field and clears errors.
func (f *Form) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.Reset()
		f.Fields[i].Err = ""
	}
}

// SetErrors attaches validation messages to their fields. It returns the
// messages that matched no field, joined, or "" if err is not a
// validate.Errors.
func (f *Form) SetErrors(err error) string {
	f.ClearErrors()
	var verrs validate.Errors
	if !errors.As(err, &verrs) {
		return ""
	}
	var rest []string
	for _, fe := range verrs {
		if i := f.index(fe.Field); i >= 0 {
			if f.Fields[i].Err == "" {
				f.Fields[i].Err = fe.Message
			}
			continue
		}
		rest = append(rest, fe.Message)
	}
	return strings.Join(rest, "; ")
}

// ClearErrors removes all field messages.
func (f *Form) ClearErrors() {
	for i := range f.Fields {
		f.Fields[i].Err = ""
	}
}

// HasErrors reports whether any field shows an error.
func (f Form) HasErrors() bool {
	for _, fld := range f.Fields {
		if fld.Err != "" {
			return true
		}
	}
	return false
}

// Update forwards msg to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if f.focus < 0 || f.focus >= len(f.Fields) {
		return f, nil
	}
	var cmd tea.Cmd
	f.Fields[f.focus].Input, cmd = f.Fields[f.focus].Input.Update(msg)
	return f, cmd
}

// SetWidth sizes the inputs to fit width columns.
func (f *Form) SetWidth(width int) {
	w := width - 6 // box border + padding + cursor
	if w < 10 {
		w = 10
	}
	for i := range f.Fields {
		f.Fields[i].Input.Width = w
	}
}

// View renders the labelled fields.
func (f Form) View(theme *styles.Theme, width int) string {
	var sb strings.Builder
	for i, fld := range f.Fields {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(theme.Label.Render(fld.Label) + "\n")
		box := theme.InputBox
		if i == f.focus {
			box = theme.InputBoxFocused
		}
		if width > 4 {
			box = box.Width(width - 2)
		}
		sb.WriteString(box.Render(fld.Input.View()) + "\n")
		if fld.Err != "" {
			sb.WriteString(theme.FieldError.Render(fld.Err) + "\n")
		} else if fld.Hint != "" {
			sb.WriteString(theme.Hint.Render(fld.Hint) + "\n")
		}
	}
	return sb.String()
}
