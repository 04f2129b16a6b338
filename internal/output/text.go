package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rohankatakam/relver/internal/audit"
	"github.com/rohankatakam/relver/internal/impact"
	"github.com/rohankatakam/relver/internal/ledger"
)

const (
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// TextFormatter renders terminal output
type TextFormatter struct {
	Color bool
}

func (f *TextFormatter) bold(s string) string {
	if !f.Color {
		return s
	}
	return ansiBold + s + ansiReset
}

func (f *TextFormatter) dim(s string) string {
	if !f.Color {
		return s
	}
	return ansiDim + s + ansiReset
}

func (f *TextFormatter) Version(w io.Writer, doc *ledger.Document) error {
	id := doc.Identifier()
	fmt.Fprintf(w, "📦 Version %s\n", f.bold(doc.Version))
	fmt.Fprintf(w, "   major %d · minor %d · update %d · build %d\n", id.Major, id.Minor, id.Update, id.Build)

	if entries := doc.SortedChangelog(); len(entries) > 0 {
		fmt.Fprintf(w, "\nChangelog:\n")
		for _, v := range entries {
			fmt.Fprintf(w, "  %s  %s\n", f.dim(v), doc.Changelog[v])
		}
	}

	fmt.Fprintf(w, "\nReleases: %d\n", len(doc.Releases))
	return nil
}

func (f *TextFormatter) Notes(w io.Writer, releases []*ledger.Release) error {
	if len(releases) == 0 {
		fmt.Fprintln(w, "No releases recorded")
		return nil
	}

	for i, r := range releases {
		if i > 0 {
			fmt.Fprintln(w, "─────────────────────────────────────────────────────────────────")
		}
		a := impact.Classify(r.ImpactScore)
		fmt.Fprintf(w, "%s %s  %s\n", levelEmoji(a.Level), f.bold(r.Version), r.Title)
		fmt.Fprintf(w, "   %s · %s · impact %d (%s)\n", r.Type, dateOnly(r.Date), r.ImpactScore, a.Level)
		if r.Summary != "" {
			fmt.Fprintf(w, "   %s\n", r.Summary)
		}
		for _, c := range r.Changes {
			fmt.Fprintf(w, "   - %s\n", c)
		}
		for _, t := range r.Technical {
			fmt.Fprintf(w, "   %s\n", f.dim("* "+t))
		}
	}
	return nil
}

func (f *TextFormatter) Score(w io.Writer, b impact.Breakdown, a impact.Assessment) error {
	fmt.Fprintf(w, "%s Impact score: %s (%s)\n", levelEmoji(a.Level), f.bold(fmt.Sprint(b.Score)), a.Level)
	fmt.Fprintf(w, "   %s\n\n", a.Description)
	fmt.Fprintf(w, "   base          %4d\n", b.Base)
	fmt.Fprintf(w, "   changes       %4d\n", b.ChangePoints)
	fmt.Fprintf(w, "   technical     %4d\n", b.TechnicalPoints)
	fmt.Fprintf(w, "   keywords      %4d", b.KeywordPoints)
	if len(b.MatchedKeywords) > 0 {
		fmt.Fprintf(w, "  (%s)", strings.Join(b.MatchedKeywords, ", "))
	}
	fmt.Fprintln(w)
	if b.Raw != b.Score {
		fmt.Fprintf(w, "   %s\n", f.dim(fmt.Sprintf("raw %d clamped to %d", b.Raw, b.Score)))
	}
	return nil
}

func (f *TextFormatter) History(w io.Writer, events []audit.BumpEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No version bumps recorded")
		return nil
	}

	for _, e := range events {
		line := fmt.Sprintf("%s  %-6s %s → %s  %s",
			e.Timestamp.UTC().Format("2006-01-02 15:04"), e.Kind, e.From, e.To, e.Changelog)
		if e.Consolidated {
			line += " " + f.dim("(consolidated)")
		}
		if e.Actor != "" {
			line += " " + f.dim("by "+e.Actor)
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return nil
}

// dateOnly trims a release timestamp to its calendar date.
func dateOnly(date string) string {
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}
