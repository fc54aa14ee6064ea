// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	"pestle/internal/notify"
	"pestle/internal/ui/overlay"
	"pestle/internal/ui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// toastMaxWidth caps the toast content so long messages wrap instead of
// stretching the box across the whole screen.
const toastMaxWidth = 60

// Model holds the toaster state.
type Model struct {
	message  string
	severity notify.Severity
	visible  bool
	width    int
	height   int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast with the given message and severity.
// The appropriate emoji is automatically prepended based on severity:
// ✅ success, ❌ danger, ℹ️ info, ⚠️ warn.
func (m Model) Show(message string, severity notify.Severity) Model {
	m.message = message
	m.severity = severity
	m.visible = true
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// SetSize updates the viewport dimensions for overlay positioning.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var content string
	switch m.severity {
	case notify.SeverityDanger:
		style = style.BorderForeground(styles.ToastBorderDangerColor)
		content = "❌ " + m.message
	case notify.SeverityWarn:
		style = style.BorderForeground(styles.ToastBorderWarnColor)
		content = "⚠️ " + m.message
	case notify.SeveritySuccess:
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		content = "✅ " + m.message
	default: // SeverityInfo
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		content = "ℹ️ " + m.message
	}

	return style.Render(wordwrap.String(content, toastMaxWidth))
}

// Overlay renders the toast on top of a background view.
// Uses bottom-center positioning with padding from the bottom edge.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}

	fg := m.View()

	cfg := overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1, // Padding from bottom edge
	}

	return overlay.Place(cfg, fg, bg)
}

// DismissMsg signals that the toast should be dismissed.
type DismissMsg struct{}

// ScheduleDismiss returns a command that dismisses the toast after a duration.
func ScheduleDismiss(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{}
	})
}
