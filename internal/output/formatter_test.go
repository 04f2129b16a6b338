package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rohankatakam/relver/internal/audit"
	"github.com/rohankatakam/relver/internal/impact"
	"github.com/rohankatakam/relver/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReleases() []*ledger.Release {
	return []*ledger.Release{
		{
			Version:     "0.02.000.000",
			Date:        "2025-08-20T10:00:00.000Z",
			Title:       "Add OAuth",
			Type:        "feature",
			Summary:     "Improve security",
			Changes:     []string{"a", "b"},
			Technical:   []string{"t1"},
			ImpactScore: 93,
		},
		{
			Version:     "0.01.012.001",
			Date:        "2025-08-17T01:05:00.000Z",
			Title:       "Build Update - fixed typo",
			Type:        "fix",
			Changes:     []string{"fixed typo"},
			ImpactScore: 25,
		},
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   interface{}
	}{
		{FormatText, &TextFormatter{}},
		{"", &TextFormatter{}},
		{FormatMarkdown, &MarkdownFormatter{}},
		{FormatJSON, &JSONFormatter{}},
	}
	for _, tt := range tests {
		f, err := NewFormatter(tt.format, false)
		require.NoError(t, err)
		assert.IsType(t, tt.want, f)
	}

	_, err := NewFormatter("html", false)
	assert.Error(t, err)
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ColorEnabled(&buf, true))
	assert.False(t, ColorEnabled(&buf, false))
}

func TestTextFormatter_Version(t *testing.T) {
	doc := ledger.DefaultDocument()
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Version(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, "📦 Version 0.01.012.000\n")
	assert.Contains(t, out, "major 0 · minor 1 · update 12 · build 0")
	assert.Contains(t, out, "0.01.012.000  Version tracking initialized")
	assert.Contains(t, out, "Releases: 0")
	assert.NotContains(t, out, "\033[")
}

func TestTextFormatter_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{Color: true}).Version(&buf, ledger.DefaultDocument()))
	assert.Contains(t, buf.String(), ansiBold+"0.01.012.000"+ansiReset)
}

func TestTextFormatter_Notes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Notes(&buf, sampleReleases()))

	out := buf.String()
	assert.Contains(t, out, "⚠️  0.02.000.000  Add OAuth")
	assert.Contains(t, out, "feature · 2025-08-20 · impact 93 (Medium)")
	assert.Contains(t, out, "   - a\n")
	assert.Contains(t, out, "* t1")
	assert.Contains(t, out, "• 0.01.012.001")

	buf.Reset()
	require.NoError(t, (&TextFormatter{}).Notes(&buf, nil))
	assert.Equal(t, "No releases recorded\n", buf.String())
}

func TestTextFormatter_Score(t *testing.T) {
	b := impact.Explain(impact.Input{Type: "major", Changes: make([]string, 30)})
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Score(&buf, b, impact.Classify(b.Score)))

	out := buf.String()
	assert.Contains(t, out, "Impact score: 200 (Critical)")
	assert.Contains(t, out, "raw 250 clamped to 200")
}

func TestTextFormatter_History(t *testing.T) {
	events := []audit.BumpEvent{{
		Timestamp:    time.Date(2025, 8, 17, 1, 5, 0, 0, time.UTC),
		Kind:         "update",
		From:         "0.01.012.001",
		To:           "0.01.013.000",
		Changelog:    "login fix",
		Consolidated: true,
		Actor:        "dev",
	}}
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).History(&buf, events))
	assert.Equal(t, "2025-08-17 01:05  update 0.01.012.001 → 0.01.013.000  login fix (consolidated) by dev\n", buf.String())

	buf.Reset()
	require.NoError(t, (&TextFormatter{}).History(&buf, nil))
	assert.Equal(t, "No version bumps recorded\n", buf.String())
}

func TestMarkdownFormatter_Notes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Notes(&buf, sampleReleases()))

	out := buf.String()
	assert.Contains(t, out, "# Release Notes\n")
	assert.Contains(t, out, "## 0.02.000.000 - Add OAuth\n")
	assert.Contains(t, out, "_feature release · 2025-08-20 · impact 93 (Medium)_")
	assert.Contains(t, out, "**Changes**\n\n- a\n- b\n")
	assert.Contains(t, out, "**Technical**\n\n- t1\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("0.02.000.000")), bytes.Index(buf.Bytes(), []byte("0.01.012.001")))
}

func TestMarkdownFormatter_ReleaseBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&MarkdownFormatter{}).Release(&buf, sampleReleases()[1], 0))
	assert.NotContains(t, buf.String(), "#")
	assert.Contains(t, buf.String(), "- fixed typo")
	assert.NotContains(t, buf.String(), "**Technical**")
}

func TestMarkdownFormatter_HistoryEscapesPipes(t *testing.T) {
	var buf bytes.Buffer
	events := []audit.BumpEvent{{Kind: "build", From: "1", To: "2", Changelog: "a|b"}}
	require.NoError(t, (&MarkdownFormatter{}).History(&buf, events))
	assert.Contains(t, buf.String(), `a\|b`)
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{}

	var buf bytes.Buffer
	require.NoError(t, f.Notes(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Version(&buf, ledger.DefaultDocument()))
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "0.01.012.000", doc["version"])
	assert.EqualValues(t, 12, doc["update"])

	buf.Reset()
	b := impact.Explain(impact.Input{Type: "feature", Title: "Add OAuth", Summary: "Improve security", Changes: []string{"a", "b"}, Technical: []string{"t1"}})
	require.NoError(t, f.Score(&buf, b, impact.Classify(b.Score)))
	var score map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &score))
	assert.EqualValues(t, 93, score["score"])
	assert.Equal(t, "Medium", score["level"])
}
