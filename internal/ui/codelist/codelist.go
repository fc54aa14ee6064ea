// Package codelist provides the editable list of pharmacy ODS codes.
package codelist

import (
	"pestle/internal/codes"
	"pestle/internal/ui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// inputRow is the cursor position for the add input, above the first code.
const inputRow = -1

// Model holds the code list state.
type Model struct {
	list    *codes.List
	input   textinput.Model
	cursor  int // inputRow or an index into the codes
	focused bool
	width   int
	err     string
}

// New creates an empty code list.
func New() Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "e.g. AB123"
	in.CharLimit = 6
	return Model{
		list:   codes.New(),
		input:  in,
		cursor: inputRow,
	}
}

// SetWidth sets the rendered section width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	m.input.Width = max(width-6, 10)
	return m
}

// Focus gives the component focus, starting on the add input.
func (m Model) Focus() Model {
	m.focused = true
	m.cursor = inputRow
	m.input.Focus()
	return m
}

// Blur removes focus.
func (m Model) Blur() Model {
	m.focused = false
	m.input.Blur()
	return m
}

// Focused reports whether the component has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Codes returns the current codes in insertion order.
func (m Model) Codes() []string {
	return m.list.Codes()
}

// AllValid reports whether every row in the list is well formed. An empty
// list is trivially valid; the submission gate checks emptiness separately.
func (m Model) AllValid() bool {
	for i := range m.list.Codes() {
		if !m.list.Valid(i) {
			return false
		}
	}
	return true
}

// SetCodes replaces the list, used when hydrating from a saved draft.
// Rows that fail validation are kept and flagged rather than dropped.
func (m Model) SetCodes(values []string) Model {
	m.list.SetCodes(values)
	m.cursor = inputRow
	return m
}

// Clear removes every code and resets the input.
func (m Model) Clear() Model {
	m.list.Clear()
	m.input.SetValue("")
	m.cursor = inputRow
	m.err = ""
	return m
}

// Error returns the current add-input validation message.
func (m Model) Error() string {
	return m.err
}

// Update handles key input while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "down", "ctrl+n":
		if m.cursor < len(m.list.Codes())-1 {
			m.cursor++
			m.input.Blur()
		}
		return m, nil

	case "up", "ctrl+p":
		if m.cursor > inputRow {
			m.cursor--
			if m.cursor == inputRow {
				m.input.Focus()
			}
		}
		return m, nil

	case "enter":
		if m.cursor != inputRow {
			return m, nil
		}
		if err := m.list.Add(m.input.Value()); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.input.SetValue("")
		m.err = ""
		return m, nil

	case "ctrl+d":
		if m.cursor == inputRow {
			return m, nil
		}
		m.list.RemoveAt(m.cursor)
		if m.cursor >= len(m.list.Codes()) {
			m.cursor = len(m.list.Codes()) - 1
		}
		if m.cursor < 0 {
			m.cursor = inputRow
			m.input.Focus()
		}
		return m, nil
	}

	if m.cursor == inputRow {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.err = ""
		return m, cmd
	}
	return m, nil
}

// View renders the section: the add input, then one row per code, with
// malformed rows flagged.
func (m Model) View() string {
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	invalidStyle := lipgloss.NewStyle().Foreground(styles.StatusErrorColor)

	rows := []string{m.input.View()}
	if m.err != "" {
		rows = append(rows, styles.FieldErrorStyle.Render("⚠ "+m.err))
	}

	for i, code := range m.list.Codes() {
		indicator := " "
		if m.focused && i == m.cursor {
			indicator = styles.SelectionIndicatorStyle.Render(">")
		}

		if m.list.Valid(i) {
			rows = append(rows, indicator+" "+valueStyle.Render(code))
		} else {
			rows = append(rows, indicator+" "+invalidStyle.Render(code+"  ⚠ invalid"))
		}
	}

	width := max(m.width, 20)
	return styles.RenderFormSection(rows, "Pharmacy ODS codes", "enter to add, ctrl+d to remove",
		width, m.focused, styles.BorderHighlightFocusColor)
}
