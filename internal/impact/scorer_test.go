package impact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Example(t *testing.T) {
	in := Input{
		Type:      "feature",
		Title:     "Add OAuth",
		Summary:   "Improve security",
		Changes:   []string{"a", "b"},
		Technical: []string{"t1"},
	}

	b := Explain(in)
	assert.Equal(t, 70, b.Base)
	assert.Equal(t, 10, b.ChangePoints)
	assert.Equal(t, 3, b.TechnicalPoints)
	assert.Equal(t, []string{"security"}, b.MatchedKeywords)
	assert.Equal(t, 93, Score(in))
	assert.Equal(t, LevelMedium, Classify(93).Level)
}

func TestScore_BaseByType(t *testing.T) {
	tests := []struct {
		typ      string
		expected int
	}{
		{"major", 100},
		{"feature", 70},
		{"update", 40},
		{"fix", 20},
		{"hotfix", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(Input{Type: tt.typ}))
		})
	}
}

func TestScore_SubstringOverMatch(t *testing.T) {
	// "rapid" contains "api" and "build" contains "ui".
	b := Explain(Input{Type: "fix", Title: "Rapid build"})
	assert.ElementsMatch(t, []string{"api", "ui"}, b.MatchedKeywords)
	assert.Equal(t, 40, b.Score)
}

func TestScore_CaseInsensitive(t *testing.T) {
	b := Explain(Input{Type: "update", Technical: []string{"DATABASE MIGRATION"}})
	assert.ElementsMatch(t, []string{"database", "migration"}, b.MatchedKeywords)
}

func TestScore_KeywordCountedOnce(t *testing.T) {
	b := Explain(Input{Type: "fix", Title: "security", Summary: "security security"})
	assert.Equal(t, 10, b.KeywordPoints)
}

func TestScore_Clamped(t *testing.T) {
	changes := make([]string, 40)
	for i := range changes {
		changes[i] = "change"
	}
	in := Input{
		Type:    "major",
		Title:   strings.Join(Keywords, " "),
		Changes: changes,
	}

	b := Explain(in)
	assert.Greater(t, b.Raw, MaxScore)
	assert.Equal(t, MaxScore, b.Score)
}

func TestScore_MonotonicInChanges(t *testing.T) {
	prev := -1
	for n := 0; n < 50; n++ {
		in := Input{
			Type:      "update",
			Title:     "Refresh",
			Changes:   make([]string, n),
			Technical: make([]string, n/2),
		}
		s := Score(in)
		assert.GreaterOrEqual(t, s, prev, "n=%d", n)
		assert.LessOrEqual(t, s, MaxScore)
		prev = s
	}
}

func TestScore_EmptyInput(t *testing.T) {
	assert.Equal(t, 0, Score(Input{}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected Level
	}{
		{"zero", 0, LevelMinimal},
		{"just below low", 29, LevelMinimal},
		{"low boundary", 30, LevelLow},
		{"just below medium", 59, LevelLow},
		{"medium boundary", 60, LevelMedium},
		{"just below high", 99, LevelMedium},
		{"high boundary", 100, LevelHigh},
		{"just below critical", 149, LevelHigh},
		{"critical boundary", 150, LevelCritical},
		{"max", 200, LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.score)
			if got.Level != tt.expected {
				t.Errorf("Classify(%d) = %v, want %v", tt.score, got.Level, tt.expected)
			}
			assert.NotEmpty(t, got.Description)
		})
	}
}
