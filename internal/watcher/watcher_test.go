package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestle/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pestle.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("test"), 0644))

	w, err := watcher.New(watcher.Config{
		DBPath:      dbPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	// Rapid writes should coalesce into a single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte(fmt.Sprintf("test%d", i)), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pestle.db")
	otherPath := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0644))
	// Pre-create the other file so writes to it are just Write events
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0644))

	w, err := watcher.New(watcher.Config{
		DBPath:      dbPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(otherPath, []byte("other content"), 0644))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pestle.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("test"), 0644))

	w, err := watcher.New(watcher.Config{
		DBPath:      dbPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		close(done)
	}()

	select {
	case <-done:
		// Expected
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestWatcher_WatchesWALFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pestle.db")
	walPath := filepath.Join(dir, "pestle.db-wal")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0644))

	w, err := watcher.New(watcher.Config{
		DBPath:      dbPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(walPath, []byte("wal data"), 0644))

	select {
	case <-onChange:
		// Expected - WAL writes should trigger notification
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification for WAL file write")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/data/pestle.db")

	assert.Equal(t, "/data/pestle.db", cfg.DBPath)
	assert.Equal(t, 1*time.Second, cfg.DebounceDur)
}
