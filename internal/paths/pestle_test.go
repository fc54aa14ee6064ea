package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDataDir_AppendsDotPestle(t *testing.T) {
	assert.Equal(t, filepath.Join("some", "project", ".pestle"), ResolveDataDir("some/project"))
}

func TestResolveDataDir_EmptyDefaultsToCwd(t *testing.T) {
	assert.Equal(t, ".pestle", ResolveDataDir(""))
}

func TestResolveDataDir_AlreadyDotPestle(t *testing.T) {
	assert.Equal(t, filepath.Join("some", "project", ".pestle"), ResolveDataDir("some/project/.pestle"))
}

func TestResolveDataDir_DirectDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DraftDBName), []byte{}, 0600))

	assert.Equal(t, dir, ResolveDataDir(dir))
}

func TestDraftDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("p", ".pestle", DraftDBName), DraftDBPath("p"))
}
