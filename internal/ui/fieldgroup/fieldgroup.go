// Package fieldgroup provides a validated group of labelled text inputs
// driven by a schema.FieldSet.
package fieldgroup

import (
	"strings"

	"pestle/internal/schema"
	"pestle/internal/ui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const minInputWidth = 20

// Model holds the field group state. The zero value is unusable; create
// with New.
type Model struct {
	fields  schema.FieldSet
	inputs  []textinput.Model
	errors  []string
	focused int // index into fields, -1 when the group has no focus
	width   int
}

// New creates a field group for the given descriptors.
func New(fields schema.FieldSet) Model {
	inputs := make([]textinput.Model, len(fields))
	for i, d := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = d.Placeholder
		in.CharLimit = 256
		inputs[i] = in
	}
	return Model{
		fields:  fields,
		inputs:  inputs,
		errors:  make([]string, len(fields)),
		focused: -1,
	}
}

// SetFields replaces the descriptors, carrying over values for keys present
// in both the old and new sets. Validation errors are discarded.
func (m Model) SetFields(fields schema.FieldSet) Model {
	old := m.values()

	next := New(fields)
	next.width = m.width
	for i, d := range fields {
		if v, ok := old[d.Key]; ok {
			next.inputs[i].SetValue(v)
		}
	}
	return next.applyWidth()
}

// SetWidth sets the rendered section width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m.applyWidth()
}

func (m Model) applyWidth() Model {
	inputWidth := max(m.width-6, minInputWidth) // Account for borders and padding
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}
	return m
}

// Focus gives focus to the first field.
func (m Model) Focus() Model {
	return m.FocusIndex(0)
}

// FocusIndex gives focus to the field at the given index.
func (m Model) FocusIndex(i int) Model {
	if i < 0 || i >= len(m.inputs) {
		return m
	}
	m = m.Blur()
	m.focused = i
	m.inputs[i].Focus()
	return m
}

// FocusLast gives focus to the last field.
func (m Model) FocusLast() Model {
	return m.FocusIndex(len(m.inputs) - 1)
}

// Blur removes focus from the group.
func (m Model) Blur() Model {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focused = -1
	return m
}

// Next moves focus to the following field. Returns false when focus moves
// past the last field; the group is blurred in that case.
func (m Model) Next() (Model, bool) {
	if m.focused >= len(m.inputs)-1 {
		return m.Blur(), false
	}
	return m.FocusIndex(m.focused + 1), true
}

// Prev moves focus to the preceding field. Returns false when focus moves
// before the first field; the group is blurred in that case.
func (m Model) Prev() (Model, bool) {
	if m.focused <= 0 {
		return m.Blur(), false
	}
	return m.FocusIndex(m.focused - 1), true
}

// Focused returns the focused field index, or -1.
func (m Model) Focused() int {
	return m.focused
}

// Len returns the number of fields.
func (m Model) Len() int {
	return len(m.fields)
}

// Update delegates input to the focused field. Typing clears that field's
// validation error.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.focused < 0 || m.focused >= len(m.inputs) {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		m.errors[m.focused] = ""
	}
	return m, cmd
}

// Values returns the trimmed field values keyed by descriptor key.
func (m Model) Values() map[string]string {
	values := m.values()
	for k, v := range values {
		values[k] = strings.TrimSpace(v)
	}
	return values
}

func (m Model) values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for i, d := range m.fields {
		values[d.Key] = m.inputs[i].Value()
	}
	return values
}

// SetValues replaces field values from the given map. Keys not present in
// the map clear the field.
func (m Model) SetValues(values map[string]string) Model {
	for i, d := range m.fields {
		m.inputs[i].SetValue(values[d.Key])
	}
	return m
}

// Validate runs every field's validation and records per-field messages.
// Returns the first failing field's message, or empty when all pass.
func (m Model) Validate() (Model, string) {
	first := ""
	for i, d := range m.fields {
		res := schema.Validate(d, m.inputs[i].Value())
		if res.OK {
			m.errors[i] = ""
			continue
		}
		m.errors[i] = res.Message
		if first == "" {
			first = res.Message
		}
	}
	return m, first
}

// ErrorAt returns the recorded validation message for the field at i.
func (m Model) ErrorAt(i int) string {
	if i < 0 || i >= len(m.errors) {
		return ""
	}
	return m.errors[i]
}

// View renders each field as a bordered section with its label, the input,
// and any validation message beneath it.
func (m Model) View() string {
	sectionWidth := max(m.width, minInputWidth+2)

	sections := make([]string, 0, len(m.fields))
	for i, d := range m.fields {
		rows := []string{m.inputs[i].View()}
		if m.errors[i] != "" {
			rows = append(rows, styles.FieldErrorStyle.Render("⚠ "+m.errors[i]))
		}
		sections = append(sections, styles.RenderFormSection(
			rows, d.Label, "", sectionWidth, i == m.focused, styles.BorderHighlightFocusColor))
	}

	return strings.Join(sections, "\n")
}
