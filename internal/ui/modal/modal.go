// Package modal provides a confirmation dialog used for destructive form
// actions.
package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pestle/internal/ui/overlay"
	"pestle/internal/ui/styles"
)

// ButtonVariant controls the styling of the confirm button.
type ButtonVariant int

const (
	ButtonPrimary ButtonVariant = iota
	ButtonDanger // For destructive actions such as clearing the form
)

// Config controls dialog appearance.
type Config struct {
	Title          string
	Message        string
	ConfirmVariant ButtonVariant
	MinWidth       int // 0 = default 40
}

// ConfirmMsg is sent when the user confirms the dialog.
type ConfirmMsg struct{}

// CancelMsg is sent when the user cancels the dialog.
type CancelMsg struct{}

// Field identifies which button is focused.
type Field int

const (
	FieldConfirm Field = iota
	FieldCancel
)

// Model is the dialog state.
type Model struct {
	config  Config
	focused Field
	width   int
	height  int
}

// New creates a dialog with focus on the confirm button.
func New(cfg Config) Model {
	return Model{config: cfg, focused: FieldConfirm}
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.focused = FieldConfirm
			return m, nil

		case "right", "l", "tab":
			m.focused = FieldCancel
			return m, nil

		case "enter":
			if m.focused == FieldConfirm {
				return m, func() tea.Msg { return ConfirmMsg{} }
			}
			return m, func() tea.Msg { return CancelMsg{} }

		case "esc":
			return m, func() tea.Msg { return CancelMsg{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the dialog content (without overlay).
func (m Model) View() string {
	minWidth := 40
	if m.config.MinWidth > minWidth {
		minWidth = m.config.MinWidth
	}
	contentWidth := minWidth
	if titleLen := lipgloss.Width(m.config.Title); titleLen > contentWidth {
		contentWidth = titleLen
	}
	boxWidth := contentWidth + 2 // Account for content padding

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	dividerStyle := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	if m.config.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimaryColor).
			Width(contentWidth)
		content.WriteString(msgStyle.Render(m.config.Message))
		content.WriteString("\n\n")
	}
	content.WriteString(m.renderButtons())

	var result strings.Builder
	result.WriteString(titleStyle.Render(m.config.Title))
	result.WriteString("\n")
	result.WriteString(divider)
	result.WriteString("\n")
	contentStyle := lipgloss.NewStyle().Padding(1, 1)
	result.WriteString(contentStyle.Render(content.String()))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth)

	return boxStyle.Render(result.String())
}

func (m Model) renderButtons() string {
	var confirmStyle lipgloss.Style
	switch m.config.ConfirmVariant {
	case ButtonDanger:
		confirmStyle = styles.DangerButtonStyle
		if m.focused == FieldConfirm {
			confirmStyle = styles.DangerButtonFocusedStyle
		}
	default:
		confirmStyle = styles.PrimaryButtonStyle
		if m.focused == FieldConfirm {
			confirmStyle = styles.PrimaryButtonFocusedStyle
		}
	}

	cancelStyle := styles.SecondaryButtonStyle
	if m.focused == FieldCancel {
		cancelStyle = styles.SecondaryButtonFocusedStyle
	}

	return confirmStyle.Render("Confirm") + "  " + cancelStyle.Render("Cancel")
}

// Overlay renders the dialog centered on the given background.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// SetSize updates the dialog's knowledge of viewport size for centering.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focused returns the currently focused button.
func (m Model) Focused() Field {
	return m.focused
}
