package storage

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketSlots = "slots"

// BoltStorage implements BookmarkStorage with a bbolt bucket.
type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens (or creates) the bbolt database at path.
func NewBoltStorage(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSlots))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStorage{db: db}, nil
}

// Path returns the database file path.
func (s *BoltStorage) Path() string {
	return s.db.Path()
}

// Close closes the database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

// ReadBookmarks reads the bookmarks slot.
func (s *BoltStorage) ReadBookmarks() (string, bool, error) {
	var (
		data string
		ok   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketSlots)).Get([]byte(BookmarksKey))
		if v != nil {
			// v is only valid inside the transaction
			data = string(v)
			ok = true
		}
		return nil
	})
	return data, ok, err
}

// WriteBookmarks replaces the bookmarks slot.
func (s *BoltStorage) WriteBookmarks(data string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSlots)).Put([]byte(BookmarksKey), []byte(data))
	})
}
