package main

import (
	"fmt"

	"github.com/rohankatakam/relver/internal/errors"
	"github.com/rohankatakam/relver/internal/ledger"
	"github.com/rohankatakam/relver/internal/version"
	"github.com/spf13/cobra"
)

var (
	bumpMessage     string
	bumpTitle       string
	bumpSummary     string
	bumpChanges     []string
	bumpTechnical   []string
	bumpConsolidate bool
	bumpFile        string
	bumpNoRelease   bool
)

var bumpCmd = &cobra.Command{
	Use:   "bump <major|minor|update|build>",
	Short: "Increment the version and record a release",
	Long: `Increment one component of the version. Lower components reset to zero.

A release record is created unless --no-release is given. With
--consolidate the changes are folded into the most recent release, which
moves to the new version.

Examples:
  relver bump build -m "fixed typo"
  relver bump update --title "Login fix" --summary "Session handling" --change "Fix timeout"
  relver bump update --title "Login fix" --change "Also fix logout" --consolidate
  relver bump minor --file release.yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"major", "minor", "update", "build"},
	RunE:      runBump,
}

var buildCmd = &cobra.Command{
	Use:   "build <description>",
	Short: "Increment the build number with a generated fix release",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		doc, err := l.AutoIncrementBuild(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✅ %s\n", doc.Version)
		return nil
	},
}

func init() {
	bumpCmd.Flags().StringVarP(&bumpMessage, "message", "m", "", "changelog entry (default: \"<title>: <summary>\")")
	bumpCmd.Flags().StringVar(&bumpTitle, "title", "", "release title")
	bumpCmd.Flags().StringVar(&bumpSummary, "summary", "", "release summary")
	bumpCmd.Flags().StringArrayVar(&bumpChanges, "change", nil, "user-facing change (repeatable)")
	bumpCmd.Flags().StringArrayVar(&bumpTechnical, "technical", nil, "technical detail (repeatable)")
	bumpCmd.Flags().BoolVar(&bumpConsolidate, "consolidate", false, "merge into the most recent release")
	bumpCmd.Flags().StringVarP(&bumpFile, "file", "f", "", "read release info from a YAML or JSON file")
	bumpCmd.Flags().BoolVar(&bumpNoRelease, "no-release", false, "only bump the version and changelog")
}

func runBump(cmd *cobra.Command, args []string) error {
	kind, err := version.ParseKind(args[0])
	if err != nil {
		return errors.ValidationErrorf("%v", err)
	}

	info, err := bumpReleaseInfo(kind)
	if err != nil {
		return err
	}

	entry := bumpMessage
	if entry == "" && info != nil {
		entry = changelogFor(info)
	}
	if entry == "" {
		return errors.ValidationError("a changelog entry is required: pass --message or --title")
	}

	l, closeFn, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	doc, err := l.Update(cmd.Context(), kind, entry, info)
	if err != nil {
		return err
	}

	fmt.Printf("✅ %s (%s)\n", doc.Version, kind)
	if info != nil {
		if r, ok := doc.Releases[doc.Version]; ok {
			fmt.Printf("   Release: %s · impact %d\n", r.Title, r.ImpactScore)
		}
	}
	return nil
}

// bumpReleaseInfo collects release info from --file or the flags. It
// returns nil when no release should be recorded.
func bumpReleaseInfo(kind version.Kind) (*ledger.ReleaseInfo, error) {
	if bumpNoRelease {
		return nil, nil
	}

	var info ledger.ReleaseInfo
	if bumpFile != "" {
		if err := readReleaseFile(bumpFile, &info); err != nil {
			return nil, err
		}
	}

	if bumpTitle != "" {
		info.Title = bumpTitle
	}
	if bumpSummary != "" {
		info.Summary = bumpSummary
	}
	info.Changes = append(info.Changes, bumpChanges...)
	info.Technical = append(info.Technical, bumpTechnical...)
	if bumpConsolidate {
		info.ConsolidateWithPrevious = true
	}

	if info.Title == "" {
		if bumpMessage == "" {
			return nil, errors.ValidationError("a release needs --title (or --no-release)")
		}
		info.Title = defaultTitle(kind, bumpMessage)
	}
	if len(info.Changes) == 0 && bumpMessage != "" {
		info.Changes = []string{bumpMessage}
	}
	return &info, nil
}

func changelogFor(info *ledger.ReleaseInfo) string {
	if info.Summary == "" {
		return info.Title
	}
	return info.Title + ": " + info.Summary
}

func defaultTitle(kind version.Kind, message string) string {
	switch kind {
	case version.KindBuild:
		return "Build Update - " + message
	default:
		return message
	}
}
