package output

import (
	"encoding/json"
	"io"

	"github.com/rohankatakam/relver/internal/audit"
	"github.com/rohankatakam/relver/internal/impact"
	"github.com/rohankatakam/relver/internal/ledger"
)

// JSONFormatter renders machine-readable output
type JSONFormatter struct {
	Indent string
}

type scoreOutput struct {
	impact.Breakdown
	Level       impact.Level `json:"level"`
	Description string       `json:"description"`
}

func (f *JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(v)
}

func (f *JSONFormatter) Version(w io.Writer, doc *ledger.Document) error {
	return f.encode(w, doc)
}

func (f *JSONFormatter) Notes(w io.Writer, releases []*ledger.Release) error {
	if releases == nil {
		releases = []*ledger.Release{}
	}
	return f.encode(w, releases)
}

func (f *JSONFormatter) Score(w io.Writer, b impact.Breakdown, a impact.Assessment) error {
	return f.encode(w, scoreOutput{Breakdown: b, Level: a.Level, Description: a.Description})
}

func (f *JSONFormatter) History(w io.Writer, events []audit.BumpEvent) error {
	if events == nil {
		events = []audit.BumpEvent{}
	}
	return f.encode(w, events)
}
