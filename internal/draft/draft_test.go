package draft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestle/internal/roster"
)

func TestSnapshot_Empty(t *testing.T) {
	assert.True(t, Snapshot{}.Empty())
	assert.True(t, Snapshot{Business: map[string]string{"name": ""}}.Empty())

	assert.False(t, Snapshot{BusinessType: "soleTrader"}.Empty())
	assert.False(t, Snapshot{Business: map[string]string{"name": "Dove"}}.Empty())
	assert.False(t, Snapshot{Contact: map[string]string{"email": "a@b.c"}}.Empty())
	assert.False(t, Snapshot{ODS: []string{"AB123"}}.Empty())
	assert.False(t, Snapshot{Pharmacists: []roster.Record{{GPHC: "1234567", Name: "J"}}}.Empty())
}

func TestSnapshot_ForwardCompatibleDecode(t *testing.T) {
	// Extra keys from a newer build and missing keys from an older one both
	// decode without error.
	raw := `{"businessType":"partnership","ods":["AB123"],"futureField":42}`

	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, "partnership", s.BusinessType)
	assert.Equal(t, []string{"AB123"}, s.ODS)
	assert.Nil(t, s.Business)
	assert.Nil(t, s.Pharmacists)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := Snapshot{
		BusinessType: "limitedCompany",
		Business:     map[string]string{"name": "Dove Pharmacy Ltd", "number": "01234567"},
		Contact:      map[string]string{"name": "Jane Doe", "telephone": "07123456789"},
		ODS:          []string{"AB123", "CDE45"},
		Pharmacists:  []roster.Record{{GPHC: "1234567", Name: "Jane Doe"}},
	}

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, s, got)
}
