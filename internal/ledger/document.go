package ledger

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/rohankatakam/relver/internal/impact"
	"github.com/rohankatakam/relver/internal/version"
)

// DateLayout is the ISO-8601 form used for release dates, e.g.
// "2025-08-17T01:04:00.000Z".
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Seed values for a ledger that has never been written.
const (
	DefaultVersion   = "0.01.012.000"
	DefaultChangelog = "Version tracking initialized"
)

// Release is the rich record of what shipped in a version.
type Release struct {
	Version     string   `json:"version" yaml:"version"`
	Date        string   `json:"date" yaml:"date"`
	Title       string   `json:"title" yaml:"title"`
	Type        string   `json:"type" yaml:"type"`
	Summary     string   `json:"summary" yaml:"summary"`
	Changes     []string `json:"changes" yaml:"changes"`
	Technical   []string `json:"technical,omitempty" yaml:"technical,omitempty"`
	ImpactScore int      `json:"impactScore" yaml:"impactScore"`
}

// ImpactInput returns the fields that feed the impact score.
func (r *Release) ImpactInput() impact.Input {
	return impact.Input{
		Type:      r.Type,
		Title:     r.Title,
		Summary:   r.Summary,
		Changes:   r.Changes,
		Technical: r.Technical,
	}
}

// Rescore recomputes ImpactScore from the release content.
func (r *Release) Rescore() {
	r.ImpactScore = impact.Score(r.ImpactInput())
}

// Time parses Date. Unparseable dates return the zero time so they sort
// as the oldest release.
func (r *Release) Time() time.Time {
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Document is the persisted ledger state.
type Document struct {
	Version   string              `json:"version"`
	Major     int                 `json:"major"`
	Minor     int                 `json:"minor"`
	Update    int                 `json:"update"`
	Build     int                 `json:"build"`
	Changelog map[string]string   `json:"changelog"`
	Releases  map[string]*Release `json:"releases"`

	legacy []string // three-part keys seen when the document was read
}

// DefaultDocument returns a fresh seed document. Every call allocates new
// maps so callers can mutate the result freely.
func DefaultDocument() *Document {
	doc := &Document{
		Changelog: map[string]string{DefaultVersion: DefaultChangelog},
		Releases:  map[string]*Release{},
	}
	doc.SetVersion(version.Parse(DefaultVersion))
	return doc
}

// Identifier returns the current version as a value.
func (d *Document) Identifier() version.Identifier {
	return version.Parse(d.Version)
}

// SetVersion writes the canonical string and all four components together
// so they cannot drift apart.
func (d *Document) SetVersion(v version.Identifier) {
	d.Version = v.String()
	d.Major = v.Major
	d.Minor = v.Minor
	d.Update = v.Update
	d.Build = v.Build
}

// SortedReleases returns releases newest version first.
func (d *Document) SortedReleases() []*Release {
	out := make([]*Release, 0, len(d.Releases))
	for _, r := range d.Releases {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := version.Compare(version.Parse(out[i].Version), version.Parse(out[j].Version))
		if c != 0 {
			return c > 0
		}
		return out[i].Date > out[j].Date
	})
	return out
}

// SortedChangelog returns changelog versions newest first.
func (d *Document) SortedChangelog() []string {
	keys := make([]string, 0, len(d.Changelog))
	for k := range d.Changelog {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return version.Compare(version.Parse(keys[i]), version.Parse(keys[j])) > 0
	})
	return keys
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := *d
	out.Changelog = make(map[string]string, len(d.Changelog))
	for k, v := range d.Changelog {
		out.Changelog[k] = v
	}
	out.Releases = make(map[string]*Release, len(d.Releases))
	for k, r := range d.Releases {
		rc := *r
		rc.Changes = append([]string(nil), r.Changes...)
		if r.Technical != nil {
			rc.Technical = append([]string(nil), r.Technical...)
		}
		out.Releases[k] = &rc
	}
	return &out
}

// Encode serializes the document in its on-disk form.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a persisted document without migrating it.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
