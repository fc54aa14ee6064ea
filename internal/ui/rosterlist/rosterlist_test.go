package rosterlist

import (
	"testing"
	"time"

	"pestle/internal/roster"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, t tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: t})
}

func addPharmacist(t *testing.T, m Model, gphc, name string) Model {
	t.Helper()
	m = typeString(m, gphc)
	m, _ = press(m, tea.KeyEnter) // move to name
	m = typeString(m, name)
	m, _ = press(m, tea.KeyEnter) // submit
	require.Empty(t, m.Error())
	return m
}

func gphcs(m Model) []string {
	recs := m.Records()
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.GPHC
	}
	return out
}

func TestNew_Empty(t *testing.T) {
	m := New()

	assert.Empty(t, m.Records())
	assert.False(t, m.Focused())
}

func TestAdd_Flow(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")

	require.Len(t, m.Records(), 1)
	assert.Equal(t, roster.Record{GPHC: "1234567", Name: "Jane Smith"}, m.Records()[0])
}

func TestAdd_EmptyGPHC(t *testing.T) {
	m := New().Focus()
	m, _ = press(m, tea.KeyEnter) // to name
	m = typeString(m, "Jane Smith")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, roster.ErrGPHCRequired.Error(), m.Error())
	assert.Empty(t, m.Records())
}

func TestAdd_BadGPHC(t *testing.T) {
	m := New().Focus()
	m = typeString(m, "12345")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "Jane Smith")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, roster.ErrGPHCFormat.Error(), m.Error())
}

func TestAdd_Duplicate(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")
	m = typeString(m, "1234567")
	m, _ = press(m, tea.KeyEnter)
	m = typeString(m, "John Doe")
	m, _ = press(m, tea.KeyEnter)

	assert.Equal(t, roster.ErrDuplicateGPHC.Error(), m.Error())
	assert.Len(t, m.Records(), 1)
}

func TestAdd_TypingClearsError(t *testing.T) {
	m := New().Focus()
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEnter)
	require.NotEmpty(t, m.Error())

	m = typeString(m, "J")
	assert.Empty(t, m.Error())
}

func TestCursor_DownOntoRowsAndBack(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyCtrlD)
	assert.Empty(t, m.Records())

	// Cursor returns to the add row; adding works again
	m = addPharmacist(t, m, "7654321", "John Doe")
	assert.Len(t, m.Records(), 1)
}

func TestEdit_NameCommit(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")
	m, _ = press(m, tea.KeyDown)

	m = typeString(m, "n")
	require.True(t, m.Editing())

	// Replace the value wholesale
	for range len("Jane Smith") {
		m, _ = press(m, tea.KeyBackspace)
	}
	m = typeString(m, "Jane Jones")
	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.False(t, m.Editing())
	assert.Equal(t, "Jane Jones", m.Records()[0].Name)
}

func TestEdit_GPHCRevertOnBadValue(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")
	m, _ = press(m, tea.KeyDown)

	m = typeString(m, "e")
	require.True(t, m.Editing())

	m, _ = press(m, tea.KeyBackspace) // "123456"
	m, cmd := press(m, tea.KeyEnter)

	require.NotNil(t, cmd)
	msg, ok := cmd().(EditRevertedMsg)
	require.True(t, ok)
	assert.Equal(t, roster.ErrGPHCFormat.Error(), msg.Reason)
	assert.Equal(t, "1234567", m.Records()[0].GPHC, "value reverts on failed commit")
	assert.False(t, m.Editing())
}

func TestEdit_EscCancels(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")
	m, _ = press(m, tea.KeyDown)

	m = typeString(m, "n")
	m = typeString(m, "X")
	m, _ = press(m, tea.KeyEsc)

	assert.False(t, m.Editing())
	assert.Equal(t, "Jane Smith", m.Records()[0].Name)
}

func TestGrab_ReorderWithKeyboard(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1111111", "A")
	m = addPharmacist(t, m, "2222222", "B")
	m = addPharmacist(t, m, "3333333", "C")

	m, _ = press(m, tea.KeyDown) // row 0
	m = typeString(m, "g")       // grab A
	require.Equal(t, 0, m.Grabbed())

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, []string{"2222222", "3333333", "1111111"}, gphcs(m))

	m = typeString(m, "g") // drop
	assert.Equal(t, -1, m.Grabbed())
	assert.Equal(t, []string{"2222222", "3333333", "1111111"}, gphcs(m))
}

func TestGrab_MoveUp(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1111111", "A")
	m = addPharmacist(t, m, "2222222", "B")

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown) // row 1
	m = typeString(m, "g")
	m, _ = press(m, tea.KeyUp)

	assert.Equal(t, []string{"2222222", "1111111"}, gphcs(m))
}

func TestBlur_DropsGrabAndEdit(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")
	m, _ = press(m, tea.KeyDown)
	m = typeString(m, "n")
	require.True(t, m.Editing())

	m = m.Blur()
	assert.False(t, m.Editing())
	assert.Equal(t, -1, m.Grabbed())
	assert.Equal(t, "Jane Smith", m.Records()[0].Name)
}

func TestSetRecords(t *testing.T) {
	m := New().SetRecords([]roster.Record{
		{GPHC: "1234567", Name: "Jane Smith"},
		{GPHC: "7654321", Name: "John Doe"},
	})

	assert.Equal(t, []string{"1234567", "7654321"}, gphcs(m))
}

func TestClear(t *testing.T) {
	m := New().Focus()
	m = addPharmacist(t, m, "1234567", "Jane Smith")
	m = m.Clear()

	assert.Empty(t, m.Records())
	assert.Empty(t, m.Error())
}

func TestUpdate_IgnoredWithoutFocus(t *testing.T) {
	m := New()
	m = typeString(m, "1234567")
	m, _ = press(m, tea.KeyEnter)

	assert.Empty(t, m.Records())
}

func TestView_ShowsHeaderAndRows(t *testing.T) {
	m := New().SetWidth(60).SetRecords([]roster.Record{
		{GPHC: "1234567", Name: "Jane Smith"},
	})

	view := m.View()
	assert.Contains(t, view, "Pharmacists")
	assert.Contains(t, view, "GPHC Number")
	assert.Contains(t, view, "1234567")
	assert.Contains(t, view, "Jane Smith")
}

func TestView_RegistersRowZones(t *testing.T) {
	m := New().SetWidth(60).SetRecords([]roster.Record{
		{GPHC: "1234567", Name: "Jane Smith"},
	})

	zone.Scan(m.View())

	require.Eventually(t, func() bool {
		// Zone registration is asynchronous via a channel worker in bubblezone.
		z := zone.Get("rosterlist_row_0")
		return z != nil && !z.IsZero()
	}, time.Second, 10*time.Millisecond)
}
