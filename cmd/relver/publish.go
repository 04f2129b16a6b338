package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rohankatakam/relver/internal/config"
	"github.com/rohankatakam/relver/internal/errors"
	"github.com/rohankatakam/relver/internal/ledger"
	"github.com/rohankatakam/relver/internal/publish"
	"github.com/rohankatakam/relver/internal/version"
	"github.com/spf13/cobra"
)

var (
	publishVersion string
	publishLatest  bool
	publishDryRun  bool
	publishDraft   bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish ledger releases as GitHub releases",
	Long: `Create or update one GitHub release per ledger release, tagged
<tag_prefix><version>. Releases whose name and notes already match are
left alone.

The token is read from GITHUB_TOKEN, GH_TOKEN, the OS keychain or the
credentials file, in that order. Run 'relver configure' to store one.

Examples:
  relver publish --latest
  relver publish --version 0.01.013.000
  relver publish --dry-run`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishVersion, "version", "", "publish only this version")
	publishCmd.Flags().BoolVar(&publishLatest, "latest", false, "publish only the newest release")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "show what would be published")
	publishCmd.Flags().BoolVar(&publishDraft, "draft", false, "create new releases as drafts")
}

func runPublish(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(config.ValidationContextPublish).Err(); err != nil {
		return err
	}

	l, closeFn, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	releases, err := selectReleases(l.History(cmd.Context()))
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Println("No releases to publish")
		return nil
	}

	token := cfg.GitHub.Token
	if token == "" {
		cm := config.NewCredentialManager(config.NewKeyringManager(logger))
		token, err = cm.GetGitHubToken()
		if err != nil && !publishDryRun {
			return err
		}
	}

	p, err := publish.NewGitHubPublisher(publish.Options{
		Owner:       cfg.GitHub.Owner,
		Repo:        cfg.GitHub.Repo,
		Token:       token,
		BaseURL:     cfg.GitHub.BaseURL,
		RateLimit:   cfg.GitHub.RateLimit,
		Concurrency: cfg.GitHub.Concurrency,
		Draft:       cfg.GitHub.Draft || publishDraft,
		TagPrefix:   cfg.GitHub.TagPrefix,
		DryRun:      publishDryRun,
	}, logger)
	if err != nil {
		return err
	}

	results, err := p.Publish(cmd.Context(), releases)
	printResults(results)
	return err
}

func selectReleases(all []*ledger.Release) ([]*ledger.Release, error) {
	switch {
	case publishVersion != "":
		want := version.Canonicalize(publishVersion)
		for _, r := range all {
			if version.Canonicalize(r.Version) == want {
				return []*ledger.Release{r}, nil
			}
		}
		return nil, errors.ValidationErrorf("no release recorded for version %s", want)
	case publishLatest && len(all) > 0:
		return all[:1], nil
	default:
		return all, nil
	}
}

func printResults(results []publish.Result) {
	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(results)
		return
	}

	for _, res := range results {
		icon := "✅"
		if res.Action == publish.ActionUnchanged || res.Action == publish.ActionPlanned {
			icon = "•"
		}
		line := fmt.Sprintf("%s %-9s %s", icon, res.Action, res.Tag)
		if res.URL != "" {
			line += "  " + res.URL
		}
		fmt.Println(line)
	}
}
