package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// BookmarksKey is the slot the serialized bookmark collection lives in.
const BookmarksKey = "bookmarks"

// BookmarkStorage persists the serialized bookmark collection.
// ReadBookmarks reports ok=false when nothing has been written yet.
type BookmarkStorage interface {
	ReadBookmarks() (data string, ok bool, err error)
	WriteBookmarks(data string) error
}

// Backend names accepted in Config.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// FileStorage implements BookmarkStorage using a JSON file.
type FileStorage struct {
	path string
}

// NewFileStorage creates a new FileStorage with the given file path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the storage file path.
func (s *FileStorage) Path() string {
	return s.path
}

// ReadBookmarks reads the bookmark file.
// A missing file is not an error.
func (s *FileStorage) ReadBookmarks() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// WriteBookmarks writes the bookmark file.
// Creates the directory if it doesn't exist.
func (s *FileStorage) WriteBookmarks(data string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Write to a temp file first so a crash never leaves a truncated file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// DefaultDataDir returns the default data directory: ~/.config/forkify
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "forkify"), nil
}

// Open opens the bookmark storage for the given backend inside dir.
// The returned close func must be called on shutdown.
func Open(backend, dir string) (BookmarkStorage, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case "", BackendFile:
		return NewFileStorage(filepath.Join(dir, "bookmarks.json")), noop, nil
	case BackendSQLite:
		s, err := NewSQLiteStorage(filepath.Join(dir, "bookmarks.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, s.Close, nil
	case BackendBolt:
		s, err := NewBoltStorage(filepath.Join(dir, "bookmarks.bolt"))
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt storage: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
