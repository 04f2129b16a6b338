package storage

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Postgres driver names registered by the imported drivers.
const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

// PostgresStore implements storage using PostgreSQL
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore creates a new PostgreSQL storage. driver is either
// DriverPgx (default) or DriverPq.
func NewPostgresStore(ctx context.Context, dsn, driver, name string, logger *logrus.Logger) (*PostgresStore, error) {
	if driver == "" {
		driver = DriverPgx
	}
	if driver != DriverPgx && driver != DriverPq {
		return nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{sqlStore{
		db:        db,
		name:      name,
		location:  "postgres:" + name,
		forUpdate: " FOR UPDATE",
		logger:    logger,
	}}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}
