// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"pestle/internal/keys"
	"pestle/internal/ui/overlay"
	"pestle/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// section is a titled group of bindings in the overlay.
type section struct {
	title    string
	bindings []key.Binding
}

// Model holds the help view state.
type Model struct {
	keys    keys.KeyMap
	width   int
	height  int
	visible bool
}

// New creates the help view.
func New() Model {
	return Model{keys: keys.DefaultKeyMap()}
}

// SetSize updates the viewport dimensions for overlay centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Toggle flips visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool {
	return m.visible
}

func (m Model) sections() []section {
	k := m.keys
	return []section{
		{"Navigation", []key.Binding{k.NextField, k.PrevField, k.Up, k.Down}},
		{"Editing", []key.Binding{k.Enter, k.Escape}},
		{"Pharmacist rows", []key.Binding{k.EditGPHC, k.EditName, k.Grab, k.Remove}},
		{"Form actions", []key.Binding{k.Submit, k.Export, k.ClearForm}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}
}

// View renders the full help overlay content.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")

	for _, sec := range m.sections() {
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, binding := range sec.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(descStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString(footerStyle.Render("Press ? or esc to close"))

	return boxStyle.Render(contentStyle.Render(b.String()))
}

// Overlay renders the help view centered over the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
