// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
)

// DraftDBName is the SQLite file holding the saved application draft.
const DraftDBName = "pestle.db"

// ResolveDataDir resolves the .pestle data directory path from user input.
// It normalizes the input, accepting either a project dir or the .pestle
// dir itself.
//
// Input normalization:
//   - "/path/to/project" -> "/path/to/project/.pestle"
//   - "/path/to/project/.pestle" -> "/path/to/project/.pestle"
//   - "/path/to/data" (containing pestle.db) -> "/path/to/data"
//   - "" -> "./.pestle"
func ResolveDataDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	// If path already ends with .pestle, use it directly
	if filepath.Base(path) == ".pestle" {
		return path
	}

	// If path contains pestle.db directly, use it as the data directory.
	// This supports PESTLE_DIR pointing straight at a data directory.
	dbPath := filepath.Join(path, DraftDBName)
	if _, err := os.Stat(dbPath); err == nil {
		return path
	}

	return filepath.Join(path, ".pestle")
}

// DraftDBPath returns the draft database file inside the resolved data dir.
func DraftDBPath(dataDir string) string {
	return filepath.Join(ResolveDataDir(dataDir), DraftDBName)
}

// UserConfigDir returns the per-user config directory, ~/.config/pestle.
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pestle"), nil
}
