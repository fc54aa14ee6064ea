package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := New(60, "dark")
	require.NoError(t, err)
	assert.Equal(t, 60, r.Width())
}

func TestNew_UnknownStyleFallsBack(t *testing.T) {
	r, err := New(60, "solarized")
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestRender(t *testing.T) {
	for _, style := range []string{"dark", "light"} {
		r, err := New(60, style)
		require.NoError(t, err)

		out, err := r.Render("# Application submitted\n\nYour reference is **ABC123**.")
		require.NoError(t, err)
		assert.Contains(t, out, "Application submitted")
		assert.Contains(t, out, "ABC123")
	}
}

func TestRender_List(t *testing.T) {
	r, err := New(40, "dark")
	require.NoError(t, err)

	out, err := r.Render("- first\n- second")
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
}
