package main

import (
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current version and changelog",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.Version(os.Stdout, l.Current(cmd.Context()))
	},
}

var notesLimit int

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Print release notes, newest first",
	Long: `Print every recorded release, newest version first.

Examples:
  relver notes
  relver notes -o markdown > RELEASE_NOTES.md
  relver notes --limit 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		f, err := newFormatter()
		if err != nil {
			return err
		}

		releases := l.History(cmd.Context())
		if notesLimit > 0 && len(releases) > notesLimit {
			releases = releases[:notesLimit]
		}
		return f.Notes(os.Stdout, releases)
	},
}

func init() {
	notesCmd.Flags().IntVarP(&notesLimit, "limit", "n", 0, "only the newest n releases")
}
