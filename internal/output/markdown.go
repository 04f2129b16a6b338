package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rohankatakam/relver/internal/audit"
	"github.com/rohankatakam/relver/internal/impact"
	"github.com/rohankatakam/relver/internal/ledger"
)

// MarkdownFormatter renders release notes as markdown
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Version(w io.Writer, doc *ledger.Document) error {
	fmt.Fprintf(w, "# Version %s\n\n", doc.Version)
	if entries := doc.SortedChangelog(); len(entries) > 0 {
		fmt.Fprintf(w, "## Changelog\n\n")
		for _, v := range entries {
			fmt.Fprintf(w, "- **%s**: %s\n", v, doc.Changelog[v])
		}
	}
	return nil
}

func (f *MarkdownFormatter) Notes(w io.Writer, releases []*ledger.Release) error {
	fmt.Fprintf(w, "# Release Notes\n")
	for _, r := range releases {
		fmt.Fprintln(w)
		if err := f.Release(w, r, 2); err != nil {
			return err
		}
	}
	return nil
}

// Release renders one release with its heading at the given level.
// The publisher uses level 0 to get a body without a heading.
func (f *MarkdownFormatter) Release(w io.Writer, r *ledger.Release, headingLevel int) error {
	if headingLevel > 0 {
		fmt.Fprintf(w, "%s %s - %s\n\n", strings.Repeat("#", headingLevel), r.Version, r.Title)
	}

	a := impact.Classify(r.ImpactScore)
	fmt.Fprintf(w, "_%s release · %s · impact %d (%s)_\n", r.Type, dateOnly(r.Date), r.ImpactScore, a.Level)
	if r.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", r.Summary)
	}
	if len(r.Changes) > 0 {
		fmt.Fprintf(w, "\n**Changes**\n\n")
		for _, c := range r.Changes {
			fmt.Fprintf(w, "- %s\n", c)
		}
	}
	if len(r.Technical) > 0 {
		fmt.Fprintf(w, "\n**Technical**\n\n")
		for _, t := range r.Technical {
			fmt.Fprintf(w, "- %s\n", t)
		}
	}
	return nil
}

func (f *MarkdownFormatter) Score(w io.Writer, b impact.Breakdown, a impact.Assessment) error {
	fmt.Fprintf(w, "**Impact score:** %d (%s)\n\n", b.Score, a.Level)
	fmt.Fprintf(w, "%s\n\n", a.Description)
	fmt.Fprintf(w, "| factor | points |\n|---|---:|\n")
	fmt.Fprintf(w, "| base | %d |\n", b.Base)
	fmt.Fprintf(w, "| changes | %d |\n", b.ChangePoints)
	fmt.Fprintf(w, "| technical | %d |\n", b.TechnicalPoints)
	fmt.Fprintf(w, "| keywords | %d |\n", b.KeywordPoints)
	if len(b.MatchedKeywords) > 0 {
		fmt.Fprintf(w, "\nMatched keywords: %s\n", strings.Join(b.MatchedKeywords, ", "))
	}
	return nil
}

func (f *MarkdownFormatter) History(w io.Writer, events []audit.BumpEvent) error {
	fmt.Fprintf(w, "| when | kind | from | to | changelog |\n|---|---|---|---|---|\n")
	for _, e := range events {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			e.Timestamp.UTC().Format("2006-01-02 15:04"), e.Kind, e.From, e.To,
			strings.ReplaceAll(e.Changelog, "|", `\|`))
	}
	return nil
}
