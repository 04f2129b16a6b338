package main

import (
	"context"
	"os"
	"os/user"

	"github.com/rohankatakam/relver/internal/audit"
	"github.com/rohankatakam/relver/internal/config"
	"github.com/rohankatakam/relver/internal/errors"
	"github.com/rohankatakam/relver/internal/ledger"
	"github.com/rohankatakam/relver/internal/output"
	"github.com/rohankatakam/relver/internal/storage"
)

// openLedger validates the config, opens the configured store and wires the
// bump history. The returned func closes the store.
func openLedger(ctx context.Context) (*ledger.Ledger, func(), error) {
	if err := cfg.Validate(config.ValidationContextLedger).Err(); err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(ctx, storage.Options{
		Type:           cfg.Storage.Type,
		Path:           cfg.Storage.Path,
		DocumentName:   cfg.Storage.DocumentName,
		PostgresDSN:    cfg.Storage.PostgresDSN,
		PostgresDriver: cfg.Storage.PostgresDriver,
	}, logger)
	if err != nil {
		return nil, nil, errors.StorageError(err, "failed to open ledger store").
			WithContext("type", cfg.Storage.Type)
	}

	var opts []ledger.Option
	if cfg.History.Enabled {
		opts = append(opts, ledger.WithRecorder(historyLog()))
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close store")
		}
	}
	return ledger.New(store, logger, opts...), closeFn, nil
}

func historyLog() *audit.Log {
	return audit.NewLog(cfg.History.Path, actor())
}

// actor names whoever runs the command: the CI actor, then the OS user.
func actor() string {
	if a := os.Getenv("GITHUB_ACTOR"); a != "" {
		return a
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func newFormatter() (output.Formatter, error) {
	f, err := output.NewFormatter(output.Format(cfg.Output.Format), output.ColorEnabled(os.Stdout, cfg.Output.Color))
	if err != nil {
		return nil, errors.ValidationErrorf("%v", err)
	}
	return f, nil
}
