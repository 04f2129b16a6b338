package impact

import (
	"strings"
)

const (
	// MaxScore caps every impact score.
	MaxScore = 200

	pointsPerChange    = 5
	pointsPerTechnical = 3
	pointsPerKeyword   = 10
)

// basePoints by release type. Unknown types score zero base points.
var basePoints = map[string]int{
	"major":   100,
	"feature": 70,
	"update":  40,
	"fix":     20,
}

// Keywords that mark a release as touching a sensitive or wide-reaching
// area. Matching is by plain substring, so "api" also hits "rapid".
var Keywords = []string{
	"security",
	"performance",
	"authentication",
	"database",
	"api",
	"integration",
	"ui",
	"ux",
	"accessibility",
	"optimization",
	"architecture",
	"framework",
	"migration",
	"breaking",
}

// Input is the descriptive content of a release that feeds the score.
type Input struct {
	Type      string
	Title     string
	Summary   string
	Changes   []string
	Technical []string
}

// Breakdown records how each factor contributed to a score.
type Breakdown struct {
	Base            int      `json:"base"`
	ChangePoints    int      `json:"change_points"`
	TechnicalPoints int      `json:"technical_points"`
	KeywordPoints   int      `json:"keyword_points"`
	MatchedKeywords []string `json:"matched_keywords"`
	Raw             int      `json:"raw"`
	Score           int      `json:"score"`
}

// Score returns the bounded impact score of a release.
func Score(in Input) int {
	return Explain(in).Score
}

// Explain computes the score along with its per-factor contributions.
func Explain(in Input) Breakdown {
	b := Breakdown{
		Base:            basePoints[in.Type],
		ChangePoints:    len(in.Changes) * pointsPerChange,
		TechnicalPoints: len(in.Technical) * pointsPerTechnical,
		MatchedKeywords: []string{},
	}

	text := corpus(in)
	for _, kw := range Keywords {
		if strings.Contains(text, kw) {
			b.MatchedKeywords = append(b.MatchedKeywords, kw)
			b.KeywordPoints += pointsPerKeyword
		}
	}

	b.Raw = b.Base + b.ChangePoints + b.TechnicalPoints + b.KeywordPoints
	b.Score = clamp(b.Raw, 0, MaxScore)
	return b
}

func corpus(in Input) string {
	parts := []string{
		in.Title,
		in.Summary,
		strings.Join(in.Changes, " "),
		strings.Join(in.Technical, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
