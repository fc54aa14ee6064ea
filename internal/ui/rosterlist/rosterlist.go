// Package rosterlist provides the editable pharmacist roster table: a
// validated add row, per-cell inline edits, removal, and keyboard or
// pointer driven reordering.
package rosterlist

import (
	"fmt"
	"strings"

	"pestle/internal/roster"
	"pestle/internal/ui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
)

// addRow is the cursor position for the add inputs, above the first record.
const addRow = -1

// gphcColWidth is the rendered width of the registration number column.
const gphcColWidth = 14

// EditRevertedMsg is sent when an inline edit fails validation and the cell
// reverts to its previous value.
type EditRevertedMsg struct {
	Reason string
}

// Model holds the roster list state.
type Model struct {
	roster *roster.Roster

	gphcInput textinput.Model
	nameInput textinput.Model
	addFocus  int // 0 = gphc, 1 = name
	addErr    string

	cursor  int // addRow or an index into the records
	focused bool
	width   int

	editInput textinput.Model
	editing   bool
	editCell  roster.Cell

	grabbed  int // index of the keyboard-grabbed row, -1 when none
	dragging int // index of the pointer-dragged row, -1 when none
}

// New creates an empty roster list.
func New() Model {
	gphc := textinput.New()
	gphc.Prompt = ""
	gphc.Placeholder = "7 digits"
	gphc.CharLimit = 7
	gphc.Width = gphcColWidth - 2

	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Full name"
	name.CharLimit = 100

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 100

	return Model{
		roster:    roster.New(),
		gphcInput: gphc,
		nameInput: name,
		editInput: edit,
		cursor:    addRow,
		grabbed:   -1,
		dragging:  -1,
	}
}

// SetWidth sets the rendered section width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	m.nameInput.Width = max(width-gphcColWidth-10, 10)
	m.editInput.Width = max(width-gphcColWidth-10, 10)
	return m
}

// Focus gives the component focus, starting on the add row.
func (m Model) Focus() Model {
	m.focused = true
	m.cursor = addRow
	m.addFocus = 0
	m.gphcInput.Focus()
	m.nameInput.Blur()
	return m
}

// Blur removes focus and abandons any pending edit or grab.
func (m Model) Blur() Model {
	m.focused = false
	m.gphcInput.Blur()
	m.nameInput.Blur()
	if m.editing {
		m.roster.CancelEdit(m.cursor)
		m.editing = false
	}
	m.grabbed = -1
	return m
}

// Focused reports whether the component has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Records returns the pharmacists in display order.
func (m Model) Records() []roster.Record {
	return m.roster.Records()
}

// SetRecords replaces the roster, used when hydrating from a saved draft.
func (m Model) SetRecords(recs []roster.Record) Model {
	m.roster.SetRecords(recs)
	m.cursor = addRow
	m.grabbed = -1
	m.editing = false
	return m
}

// Roster exposes the underlying roster for export and payload assembly.
func (m Model) Roster() *roster.Roster {
	return m.roster
}

// Clear removes every record and resets the add inputs.
func (m Model) Clear() Model {
	m.roster.Clear()
	m.gphcInput.SetValue("")
	m.nameInput.SetValue("")
	m.addErr = ""
	m.cursor = addRow
	m.grabbed = -1
	m.editing = false
	return m
}

// Error returns the current add-row validation message.
func (m Model) Error() string {
	return m.addErr
}

// Editing reports whether a cell edit is in progress.
func (m Model) Editing() bool {
	return m.editing
}

// Grabbed returns the index of the keyboard-grabbed row, or -1.
func (m Model) Grabbed() int {
	return m.grabbed
}

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if mouse, ok := msg.(tea.MouseMsg); ok {
		return m.updateMouse(mouse)
	}
	if !m.focused {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		return m.updateEditing(key)
	}
	if m.cursor == addRow {
		return m.updateAddRow(key)
	}
	return m.updateRows(key)
}

func (m Model) updateEditing(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		cell := m.editCell
		m.editing = false
		if err := m.roster.CommitEdit(m.cursor, cell, m.editInput.Value()); err != nil {
			return m, editRevertedCmd(err.Error())
		}
		return m, nil
	case "esc":
		m.roster.CancelEdit(m.cursor)
		m.editing = false
		return m, nil
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(key)
	return m, cmd
}

func (m Model) updateAddRow(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "down", "ctrl+n":
		if m.roster.Len() > 0 {
			m.cursor = 0
			m.gphcInput.Blur()
			m.nameInput.Blur()
		}
		return m, nil

	case "left":
		return m.focusAddInput(0), nil

	case "right":
		return m.focusAddInput(1), nil

	case "enter":
		if m.addFocus == 0 {
			return m.focusAddInput(1), nil
		}
		if err := m.roster.Add(m.gphcInput.Value(), m.nameInput.Value()); err != nil {
			m.addErr = err.Error()
			return m, nil
		}
		m.gphcInput.SetValue("")
		m.nameInput.SetValue("")
		m.addErr = ""
		return m.focusAddInput(0), nil
	}

	var cmd tea.Cmd
	if m.addFocus == 0 {
		m.gphcInput, cmd = m.gphcInput.Update(key)
	} else {
		m.nameInput, cmd = m.nameInput.Update(key)
	}
	m.addErr = ""
	return m, cmd
}

func (m Model) updateRows(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "down", "ctrl+n":
		if m.grabbed >= 0 {
			if m.roster.MoveToIndex(m.grabbed, min(m.grabbed+1, m.roster.Len()-1)) {
				m.grabbed = min(m.grabbed+1, m.roster.Len()-1)
				m.cursor = m.grabbed
			}
			return m, nil
		}
		if m.cursor < m.roster.Len()-1 {
			m.cursor++
		}
		return m, nil

	case "up", "ctrl+p":
		if m.grabbed >= 0 {
			if m.grabbed > 0 && m.roster.MoveToIndex(m.grabbed, m.grabbed-1) {
				m.grabbed--
				m.cursor = m.grabbed
			}
			return m, nil
		}
		if m.cursor == 0 {
			m.cursor = addRow
			return m.focusAddInput(m.addFocus), nil
		}
		m.cursor--
		return m, nil

	case "g":
		if m.grabbed >= 0 {
			m.grabbed = -1 // drop
		} else {
			m.grabbed = m.cursor
		}
		return m, nil

	case "ctrl+d":
		m.roster.RemoveAt(m.cursor)
		m.grabbed = -1
		if m.cursor >= m.roster.Len() {
			m.cursor = m.roster.Len() - 1
		}
		if m.cursor < 0 {
			m.cursor = addRow
			return m.focusAddInput(m.addFocus), nil
		}
		return m, nil

	case "e":
		return m.beginEdit(roster.CellGPHC), nil

	case "n":
		return m.beginEdit(roster.CellName), nil
	}
	return m, nil
}

func (m Model) beginEdit(cell roster.Cell) Model {
	if m.grabbed >= 0 || !m.roster.BeginEdit(m.cursor, cell) {
		return m
	}
	rec := m.roster.At(m.cursor)
	m.editing = true
	m.editCell = cell
	if cell == roster.CellGPHC {
		m.editInput.SetValue(rec.GPHC)
	} else {
		m.editInput.SetValue(rec.Name)
	}
	m.editInput.CursorEnd()
	m.editInput.Focus()
	return m
}

func (m Model) focusAddInput(i int) Model {
	m.addFocus = i
	if i == 0 {
		m.gphcInput.Focus()
		m.nameInput.Blur()
	} else {
		m.gphcInput.Blur()
		m.nameInput.Focus()
	}
	return m
}

// updateMouse handles pointer driven reordering: press grabs the row under
// the pointer, release drops it before the first row whose midpoint sits
// below the pointer.
func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		for i := range m.roster.Len() {
			if z := zone.Get(m.rowZoneID(i)); z != nil && z.InBounds(msg) {
				m.dragging = i
				return m, nil
			}
		}

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		if m.dragging < 0 {
			return m, nil
		}
		from := m.dragging
		m.dragging = -1
		m.roster.MoveToIndex(from, m.dropIndex(from, msg.Y))
		return m, nil
	}
	return m, nil
}

// dropIndex maps a pointer row to an insertion index over the rendered rows,
// excluding the dragged one.
func (m Model) dropIndex(dragged, pointerY int) int {
	bounds := make([]roster.RowBounds, 0, m.roster.Len()-1)
	for i := range m.roster.Len() {
		if i == dragged {
			continue
		}
		z := zone.Get(m.rowZoneID(i))
		if z == nil || z.IsZero() {
			continue
		}
		bounds = append(bounds, roster.RowBounds{Top: z.StartY, Height: z.EndY - z.StartY + 1})
	}
	return roster.InsertionIndex(pointerY, bounds)
}

func (m Model) rowZoneID(i int) string {
	return fmt.Sprintf("rosterlist_row_%d", i)
}

// View renders the section: a header, the add row, then one row per record.
func (m Model) View() string {
	headerStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	gphcStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Width(gphcColWidth)
	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	grabbedStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.BorderHighlightFocusColor)

	rows := []string{headerStyle.Render(padRight("GPHC Number", gphcColWidth) + "Full Name")}

	addLine := "  " + padRight(m.gphcInput.View(), gphcColWidth) + m.nameInput.View()
	rows = append(rows, addLine)
	if m.addErr != "" {
		rows = append(rows, styles.FieldErrorStyle.Render("⚠ "+m.addErr))
	}

	for i, rec := range m.roster.Records() {
		indicator := " "
		if m.focused && i == m.cursor {
			indicator = styles.SelectionIndicatorStyle.Render(">")
		}

		var line string
		switch {
		case m.editing && i == m.cursor && m.editCell == roster.CellGPHC:
			line = indicator + " " + padRight(m.editInput.View(), gphcColWidth) + nameStyle.Render(rec.Name)
		case m.editing && i == m.cursor && m.editCell == roster.CellName:
			line = indicator + " " + gphcStyle.Render(rec.GPHC) + m.editInput.View()
		case i == m.grabbed:
			line = indicator + " " + grabbedStyle.Render(padRight(rec.GPHC, gphcColWidth)+rec.Name+"  [moving]")
		default:
			line = indicator + " " + gphcStyle.Render(rec.GPHC) + nameStyle.Render(rec.Name)
		}

		rows = append(rows, zone.Mark(m.rowZoneID(i), line))
	}

	width := max(m.width, 30)
	return styles.RenderFormSection(rows, "Pharmacists",
		"e/n to edit, g to move, ctrl+d to remove", width, m.focused, styles.BorderHighlightFocusColor)
}

// padRight pads by display cells so wide runes in names keep columns aligned.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func editRevertedCmd(reason string) tea.Cmd {
	return func() tea.Msg {
		return EditRevertedMsg{Reason: reason}
	}
}
