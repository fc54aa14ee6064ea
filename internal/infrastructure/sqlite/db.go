// Package sqlite persists the application draft in a local SQLite database.
// The schema is managed by golang-migrate with embedded migration files; a
// backup of the existing database is taken before migrations run.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"pestle/internal/draft"
	"pestle/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the SQLite connection and the repositories built on it.
type DB struct {
	conn   *sql.DB
	path   string
	drafts *draftRepository
}

// NewDB opens (creating if necessary) the database at path and brings the
// schema up to date. The parent directory is created with 0700 permissions.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	existed := false
	if _, err := os.Stat(path); err == nil {
		existed = true
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Serialize access: the autosave loop and foreground reads share this
	// connection.
	conn.SetMaxOpenConns(1)

	if err := migrateUp(conn, path, existed); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info(log.CatDB, "database ready", "path", path)

	return &DB{
		conn:   conn,
		path:   path,
		drafts: newDraftRepository(conn),
	}, nil
}

// Drafts returns the draft store backed by this database.
func (d *DB) Drafts() draft.Store {
	return d.drafts
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

func migrateUp(conn *sql.DB, path string, existed bool) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	drv, err := newMigrationDriver(conn)
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pestle", drv)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if existed {
		if err := backupFile(path); err != nil {
			return fmt.Errorf("failed to back up database before migration: %w", err)
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// backupFile copies path to path.bak, replacing any previous backup.
func backupFile(path string) error {
	src, err := os.Open(path) //nolint:gosec // G304: path is the user-chosen database file
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	_, err = io.Copy(dst, src)
	return err
}
