// Package typeselect provides the business structure radio list.
package typeselect

import (
	"pestle/internal/schema"
	"pestle/internal/ui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChangedMsg is sent when the user commits a different business type.
type ChangedMsg struct {
	ID string
}

// Model holds the selector state.
type Model struct {
	types    []schema.BusinessType
	selected int // committed choice, -1 when none
	cursor   int
	focused  bool
	width    int
	err      string
}

// New creates a selector over the fixed business types.
func New() Model {
	return Model{
		types:    schema.BusinessTypes(),
		selected: -1,
	}
}

// SetWidth sets the rendered section width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// Focus marks the selector focused. The cursor starts on the committed
// choice when there is one.
func (m Model) Focus() Model {
	m.focused = true
	if m.selected >= 0 {
		m.cursor = m.selected
	}
	return m
}

// Blur removes focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the selector has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Selected returns the committed business type.
func (m Model) Selected() (schema.BusinessType, bool) {
	if m.selected < 0 || m.selected >= len(m.types) {
		return schema.BusinessType{}, false
	}
	return m.types[m.selected], true
}

// SetSelectedID commits the type with the given identifier, used when
// hydrating from a saved draft. Unknown identifiers clear the selection.
func (m Model) SetSelectedID(id string) Model {
	m.selected = -1
	for i, bt := range m.types {
		if bt.ID == id {
			m.selected = i
			m.cursor = i
			break
		}
	}
	return m
}

// SetError records a validation message shown under the list.
func (m Model) SetError(msg string) Model {
	m.err = msg
	return m
}

// Error returns the current validation message.
func (m Model) Error() string {
	return m.err
}

// Update handles key input while focused. Committing a choice emits
// ChangedMsg so the owner can swap the business field set.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "down", "j", "ctrl+n":
		if m.cursor < len(m.types)-1 {
			m.cursor++
		}
	case "up", "k", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", " ":
		if m.cursor == m.selected {
			return m, nil
		}
		m.selected = m.cursor
		m.err = ""
		return m, changedCmd(m.types[m.selected].ID)
	}
	return m, nil
}

// View renders the radio list as a bordered form section.
func (m Model) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	chosenStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor)

	rows := make([]string, 0, len(m.types)+1)
	for i, bt := range m.types {
		indicator := " "
		if m.focused && i == m.cursor {
			indicator = styles.SelectionIndicatorStyle.Render(">")
		}

		marker := "( ) "
		style := labelStyle
		if i == m.selected {
			marker = "(•) "
			style = chosenStyle
		}

		rows = append(rows, indicator+marker+style.Render(bt.DisplayName))
	}
	if m.err != "" {
		rows = append(rows, styles.FieldErrorStyle.Render("⚠ "+m.err))
	}

	width := max(m.width, 20)
	return styles.RenderFormSection(rows, "Business structure", "", width, m.focused, styles.BorderHighlightFocusColor)
}

func changedCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg{ID: id}
	}
}
