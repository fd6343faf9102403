package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// migrations are applied in order; migrations[i] brings the schema to
// version i+1.
var migrations = []string{
	`CREATE TABLE slots (
		key        TEXT PRIMARY KEY NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`,
}

// SQLiteStorage implements BookmarkStorage as a key/value table in a
// SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens (or creates) the database at path and brings its
// schema up to date.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	// busy_timeout covers a second forkify process holding the write lock.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}
	version, err := s.SchemaVersion()
	if err != nil {
		return err
	}

	for v := version; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("version %d: %w", v+1, err)
		}
		if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, v+1); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion returns the migrated schema version, 0 for a new database.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

// ReadBookmarks reads the bookmarks slot.
func (s *SQLiteStorage) ReadBookmarks() (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, BookmarksKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// WriteBookmarks replaces the bookmarks slot.
func (s *SQLiteStorage) WriteBookmarks(data string) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	`, BookmarksKey, data)
	return err
}
