// Package credstore persists the bearer credential in a local BoltDB file so
// a session survives process restarts.
package credstore

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskdesk/client/repository"
)

var (
	bucketName = []byte("credential")
	slotKey    = []byte("bearer")
)

// Store is a single-slot credential store backed by BoltDB.
type Store struct {
	db *bolt.DB
}

// Open initializes the BoltDB file and ensures the bucket exists. The file
// holds a secret, so it is created owner-only.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the stored credential, or "" when the slot is empty.
func (s *Store) Get() (string, error) {
	if s == nil || s.db == nil {
		return "", bolt.ErrDatabaseNotOpen
	}
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucketName).Get(slotKey); value != nil {
			token = string(value)
		}
		return nil
	})
	return token, err
}

// Set overwrites the slot with the given credential.
func (s *Store) Set(credential string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(slotKey, []byte(credential))
	})
}

// Clear empties the slot.
func (s *Store) Clear() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(slotKey)
	})
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ repository.CredentialStore = (*Store)(nil)
