package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rohankatakam/relver/internal/config"
	"github.com/rohankatakam/relver/internal/errors"
	"github.com/rohankatakam/relver/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile      string
	verbose      bool
	outputFormat string
	logger       *logrus.Logger
	logCloser    io.Closer
	cfg          *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Error: %s\n", errors.Detailed(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "relver",
	Short: "relver - version and release ledger",
	Long: `relver keeps a four-part project version (major.minor.update.build),
a changelog entry per version and release records scored by impact.

State lives in .relver/ by default and can be moved to bbolt, SQLite or
PostgreSQL through configuration.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to load config, using defaults: %v\n", err)
			cfg = config.Default()
		}

		level := logging.ParseLevel(cfg.Logging.Level)
		if verbose {
			level = logrus.DebugLevel
		}
		logger, logCloser, err = logging.New(logging.Config{
			Level:      level,
			OutputFile: cfg.Logging.File,
			JSONFormat: cfg.Logging.JSON,
		})
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh, "failed to initialize logging")
		}

		if outputFormat != "" {
			cfg.Output.Format = outputFormat
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .relver/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text, markdown, json")

	// Set custom version template
	rootCmd.SetVersionTemplate(`relver {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	// Add subcommands
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(changelogCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(configCmd)
}
