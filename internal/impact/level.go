package impact

// Level is the qualitative tier of an impact score.
type Level string

const (
	LevelCritical Level = "Critical"
	LevelHigh     Level = "High"
	LevelMedium   Level = "Medium"
	LevelLow      Level = "Low"
	LevelMinimal  Level = "Minimal"
)

// Assessment pairs a level with a human-readable description.
type Assessment struct {
	Level       Level  `json:"level"`
	Description string `json:"description"`
}

// Classify maps a score to its tier. Each threshold is a closed lower
// bound: exactly 100 is High.
func Classify(score int) Assessment {
	switch {
	case score >= 150:
		return Assessment{LevelCritical, "Fundamental change with wide-reaching impact"}
	case score >= 100:
		return Assessment{LevelHigh, "Significant change affecting core functionality"}
	case score >= 60:
		return Assessment{LevelMedium, "Notable improvement or feature addition"}
	case score >= 30:
		return Assessment{LevelLow, "Minor enhancement or targeted fix"}
	default:
		return Assessment{LevelMinimal, "Small maintenance change"}
	}
}
