package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteStore implements storage using SQLite (for local/development)
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore creates a new SQLite storage. name selects the document
// row so several ledgers can share one database file.
func NewSQLiteStore(ctx context.Context, path, name string, logger *logrus.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// _txlock=immediate takes the write lock at BEGIN so two processes
	// cannot both read the old document inside Mutate.
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{sqlStore{
		db:       db,
		name:     name,
		location: "sqlite:" + path,
		logger:   logger,
	}}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}
