package sqlite

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err, "NewDB should succeed even with nested non-existent directories")
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err, "Directory should exist after NewDB")
	require.True(t, info.IsDir())

	// Windows doesn't support Unix permissions
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0700), info.Mode().Perm())
	}
}

// TestNewDB_RunsMigrations verifies that NewDB creates the drafts table.
func TestNewDB_RunsMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var tableName string
	err = db.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='drafts'",
	).Scan(&tableName)
	require.NoError(t, err, "drafts table should exist after migrations")
	require.Equal(t, "drafts", tableName)
}

// TestNewDB_PreMigrationBackup verifies that a .bak file is written before
// migrations when an existing database file is present.
func TestNewDB_PreMigrationBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	_, err = os.Stat(dbPath + ".bak")
	require.Error(t, err, "no backup on first open")

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	_, err = os.Stat(dbPath + ".bak")
	require.NoError(t, err, "backup should exist after reopening an existing database")
}

// TestNewDB_ReopenKeepsSchemaVersion verifies opening twice is idempotent.
func TestNewDB_ReopenKeepsSchemaVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	var version int
	var dirty bool
	err = db2.conn.QueryRow("SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	require.NoError(t, err)
	require.Equal(t, 1, version)
	require.False(t, dirty)
}
