package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Backend types accepted by Open.
const (
	TypeFile     = "file"
	TypeBolt     = "bolt"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Type           string
	Path           string // file, bolt and sqlite
	DocumentName   string // sqlite and postgres row key
	PostgresDSN    string
	PostgresDriver string
}

// Open builds the DocumentStore described by opts.
func Open(ctx context.Context, opts Options, logger *logrus.Logger) (DocumentStore, error) {
	name := opts.DocumentName
	if name == "" {
		name = "default"
	}

	logger.WithFields(logrus.Fields{
		"type": opts.Type,
		"path": opts.Path,
	}).Debug("Opening document store")

	switch opts.Type {
	case TypeFile, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFileStore(opts.Path, logger), nil
	case TypeBolt:
		return NewBoltStore(opts.Path, logger)
	case TypeSQLite:
		return NewSQLiteStore(ctx, opts.Path, name, logger)
	case TypePostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres store requires a DSN")
		}
		return NewPostgresStore(ctx, opts.PostgresDSN, opts.PostgresDriver, name, logger)
	case TypeMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}
}
