package main

import (
	"os"

	"github.com/rohankatakam/relver/internal/errors"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the log of version bumps",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, skipped, err := historyLog().ReadAll()
		if err != nil {
			return errors.FileSystemError(err, "failed to read bump history")
		}
		if skipped > 0 {
			logger.WithField("skipped", skipped).Warn("Ignored unreadable history lines")
		}

		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.History(os.Stdout, events)
	},
}
