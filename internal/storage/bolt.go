package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	boltBucket      = "ledger"
	boltDocumentKey = "document"
)

// BoltStore keeps the document in a bbolt database. bbolt holds an
// exclusive file lock while open, so only one process can use the ledger
// at a time.
type BoltStore struct {
	db     *bolt.DB
	path   string
	logger *logrus.Logger
}

// NewBoltStore opens (or creates) the bbolt file at path.
func NewBoltStore(path string, logger *logrus.Logger) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db, path: path, logger: logger}, nil
}

func (s *BoltStore) Describe() string {
	return "bolt:" + s.path
}

func (s *BoltStore) Read(ctx context.Context) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		out, err = boltGet(tx)
		return err
	})
	return out, err
}

func (s *BoltStore) Write(ctx context.Context, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return boltPut(tx, data)
	})
}

// Mutate runs fn inside a single bbolt write transaction.
func (s *BoltStore) Mutate(ctx context.Context, fn MutateFunc) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		current, readErr := boltGet(tx)
		next, err := fn(current, readErr)
		if err != nil {
			return err
		}
		return boltPut(tx, next)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func boltGet(tx *bolt.Tx) ([]byte, error) {
	bucket := tx.Bucket([]byte(boltBucket))
	if bucket == nil {
		return nil, ErrNotFound
	}
	data := bucket.Get([]byte(boltDocumentKey))
	if data == nil {
		return nil, ErrNotFound
	}
	// bbolt values are only valid for the life of the transaction.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func boltPut(tx *bolt.Tx, data []byte) error {
	bucket, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
	if err != nil {
		return err
	}
	return bucket.Put([]byte(boltDocumentKey), data)
}
