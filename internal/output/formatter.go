package output

import (
	"fmt"
	"io"
	"os"

	"github.com/rohankatakam/relver/internal/audit"
	"github.com/rohankatakam/relver/internal/impact"
	"github.com/rohankatakam/relver/internal/ledger"
	"golang.org/x/term"
)

// Format selects a renderer
type Format string

const (
	FormatText     Format = "text"     // Terminal summary
	FormatMarkdown Format = "markdown" // Release notes / GitHub release bodies
	FormatJSON     Format = "json"     // Machine-readable
)

// Formatter defines output formatting interface
type Formatter interface {
	Version(w io.Writer, doc *ledger.Document) error
	Notes(w io.Writer, releases []*ledger.Release) error
	Score(w io.Writer, b impact.Breakdown, a impact.Assessment) error
	History(w io.Writer, events []audit.BumpEvent) error
}

// NewFormatter creates the formatter for format. color only affects text.
func NewFormatter(format Format, color bool) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{Color: color}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ColorEnabled reports whether ANSI colors should be written to w.
// NO_COLOR always wins; otherwise w must be a terminal.
func ColorEnabled(w io.Writer, want bool) bool {
	if !want || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func levelEmoji(level impact.Level) string {
	switch level {
	case impact.LevelCritical:
		return "🔴"
	case impact.LevelHigh:
		return "🟠"
	case impact.LevelMedium:
		return "⚠️ "
	case impact.LevelLow:
		return "ℹ️ "
	default:
		return "•"
	}
}
