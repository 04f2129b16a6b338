package config

import (
	"os"
	"strings"
)

// DeploymentMode represents the deployment context
type DeploymentMode string

const (
	// ModeInteractive is a developer running relver from a terminal.
	// Prompts for missing credentials are allowed.
	ModeInteractive DeploymentMode = "interactive"

	// ModeCI represents CI/CD pipeline execution
	// - All credentials from environment variables
	// - No interactive prompts allowed
	ModeCI DeploymentMode = "ci"
)

// DetectMode determines the deployment context based on environment
func DetectMode() DeploymentMode {
	// Explicit mode override (highest priority)
	if mode := os.Getenv("RELVER_MODE"); mode != "" {
		switch strings.ToLower(mode) {
		case "ci", "cicd":
			return ModeCI
		case "interactive", "dev", "development":
			return ModeInteractive
		}
	}

	if isCI() {
		return ModeCI
	}
	return ModeInteractive
}

// isCI detects if running in a CI/CD environment
func isCI() bool {
	ciEnvVars := []string{
		"CI",                     // Generic CI indicator
		"CONTINUOUS_INTEGRATION", // Generic CI indicator
		"GITHUB_ACTIONS",         // GitHub Actions
		"GITLAB_CI",              // GitLab CI
		"CIRCLECI",               // CircleCI
		"JENKINS_URL",            // Jenkins
		"BUILDKITE",              // Buildkite
		"TF_BUILD",               // Azure Pipelines
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	return false
}

// String returns the string representation of the mode
func (m DeploymentMode) String() string {
	return string(m)
}

// AllowsInteractivePrompts returns true if interactive prompts are allowed
func (m DeploymentMode) AllowsInteractivePrompts() bool {
	return m == ModeInteractive
}

// Description returns a human-readable description of the mode
func (m DeploymentMode) Description() string {
	switch m {
	case ModeInteractive:
		return "Interactive terminal session"
	case ModeCI:
		return "CI/CD pipeline"
	default:
		return "Unknown mode"
	}
}
