package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"pestle/internal/draft"
	"pestle/internal/roster"
)

func newTestStore(t *testing.T) draft.Store {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.Drafts()
}

func TestDraftRepository_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok, "empty store has no draft")
}

func TestDraftRepository_SaveThenLoad(t *testing.T) {
	store := newTestStore(t)
	s := draft.Snapshot{
		BusinessType: "limitedCompany",
		Business:     map[string]string{"name": "Dove Pharmacy Ltd", "number": "01234567"},
		Contact:      map[string]string{"name": "Jane Doe"},
		ODS:          []string{"AB123"},
		Pharmacists:  []roster.Record{{GPHC: "1234567", Name: "Jane Doe"}},
	}

	require.NoError(t, store.Save(s))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s, got)
}

func TestDraftRepository_SaveReplacesPrevious(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(draft.Snapshot{BusinessType: "soleTrader"}))
	require.NoError(t, store.Save(draft.Snapshot{BusinessType: "partnership"}))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "partnership", got.BusinessType)
}

func TestDraftRepository_Clear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(draft.Snapshot{BusinessType: "soleTrader"}))

	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear())
}

// TestDraftRepository_RoundTripProperty checks that any snapshot survives a
// save/load cycle intact.
func TestDraftRepository_RoundTripProperty(t *testing.T) {
	store := newTestStore(t)

	rapid.Check(t, func(rt *rapid.T) {
		s := draft.Snapshot{
			BusinessType: rapid.SampledFrom([]string{"", "limitedCompany", "soleTrader", "partnership"}).Draw(rt, "type"),
			Business:     rapid.MapOf(rapid.StringMatching(`[a-z]{1,8}`), rapid.String()).Draw(rt, "business"),
			Contact:      rapid.MapOf(rapid.StringMatching(`[a-z]{1,8}`), rapid.String()).Draw(rt, "contact"),
			ODS:          rapid.SliceOfN(rapid.StringMatching(`[A-Z]{2,3}[0-9]{2,3}`), 0, 5).Draw(rt, "ods"),
		}
		n := rapid.IntRange(0, 5).Draw(rt, "n")
		for i := 0; i < n; i++ {
			s.Pharmacists = append(s.Pharmacists, roster.Record{
				GPHC: rapid.StringMatching(`[0-9]{7}`).Draw(rt, "gphc"),
				Name: rapid.String().Draw(rt, "name"),
			})
		}

		require.NoError(t, store.Save(s))

		got, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, s, got)
	})
}
