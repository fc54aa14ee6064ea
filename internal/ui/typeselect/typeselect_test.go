package typeselect

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NothingSelected(t *testing.T) {
	m := New()

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.False(t, m.Focused())
}

func TestUpdate_IgnoredWithoutFocus(t *testing.T) {
	m := New()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestUpdate_EnterCommitsAndEmitsChanged(t *testing.T) {
	m := New().Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(ChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "soleTrader", msg.ID)

	bt, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "soleTrader", bt.ID)
}

func TestUpdate_ReselectingSameTypeEmitsNothing(t *testing.T) {
	m := New().Focus()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	bt, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "limitedCompany", bt.ID)
}

func TestUpdate_CursorClampsAtEnds(t *testing.T) {
	m := New().Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChangedMsg{ID: "limitedCompany"}, cmd())

	for range 10 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChangedMsg{ID: "partnership"}, cmd())
	_ = m
}

func TestSetSelectedID(t *testing.T) {
	m := New().SetSelectedID("partnership")

	bt, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Partnership", bt.DisplayName)
}

func TestSetSelectedID_Unknown(t *testing.T) {
	m := New().SetSelectedID("partnership").SetSelectedID("charity")

	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestFocus_CursorStartsOnSelection(t *testing.T) {
	m := New().SetSelectedID("partnership").Focus()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Cursor sits on the committed choice, re-committing emits nothing
	assert.Nil(t, cmd)
	_ = m
}

func TestEnter_ClearsError(t *testing.T) {
	m := New().SetError("Please select a business type").Focus()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, m.Error())
}

func TestView_ShowsTypesAndMarker(t *testing.T) {
	m := New().SetWidth(44).SetSelectedID("soleTrader")

	view := m.View()
	assert.Contains(t, view, "Business structure")
	assert.Contains(t, view, "Limited Company")
	assert.Contains(t, view, "Sole Trader")
	assert.Contains(t, view, "Partnership")
	assert.Contains(t, view, "(•)")
}

func TestView_ShowsError(t *testing.T) {
	m := New().SetWidth(44).SetError("Please select a business type")

	assert.Contains(t, m.View(), "Please select a business type")
}
