package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// sqlStore keeps named ledger documents in a single table. The SQLite and
// Postgres stores share it and differ only in driver and locking clause.
type sqlStore struct {
	db        *sqlx.DB
	name      string
	location  string
	forUpdate string // row lock suffix for SELECT inside Mutate
	logger    *logrus.Logger
}

const documentSchema = `
	CREATE TABLE IF NOT EXISTS ledger_documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
`

func (s *sqlStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, documentSchema)
	return err
}

func (s *sqlStore) Describe() string {
	return s.location
}

func (s *sqlStore) Read(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.db, "")
}

func (s *sqlStore) Write(ctx context.Context, data []byte) error {
	return s.put(ctx, s.db, data)
}

// Mutate runs fn inside a transaction holding the document row lock.
func (s *sqlStore) Mutate(ctx context.Context, fn MutateFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, readErr := s.get(ctx, tx, s.forUpdate)
	next, err := fn(current, readErr)
	if err != nil {
		return err
	}

	if err := s.put(ctx, tx, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) get(ctx context.Context, q sqlx.QueryerContext, suffix string) ([]byte, error) {
	var body string
	query := s.db.Rebind(`SELECT body FROM ledger_documents WHERE name = ?` + suffix)

	err := sqlx.GetContext(ctx, q, &body, query, s.name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(body), nil
}

func (s *sqlStore) put(ctx context.Context, e sqlx.ExecerContext, data []byte) error {
	query := s.db.Rebind(`
		INSERT INTO ledger_documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`)

	_, err := e.ExecContext(ctx, query, s.name, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert document %q: %w", s.name, err)
	}

	s.logger.WithField("document", s.name).Debug("Document upserted")
	return nil
}
