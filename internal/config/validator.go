package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rohankatakam/relver/internal/errors"
)

// ValidationContext specifies what configuration is required
type ValidationContext string

const (
	// ValidationContextLedger - every command that touches the document
	ValidationContextLedger ValidationContext = "ledger"
	// ValidationContextPublish - publish also needs a GitHub repository
	ValidationContextPublish ValidationContext = "publish"
)

var (
	validStorageTypes = []string{"file", "bolt", "sqlite", "postgres", "memory"}
	validFormats      = []string{"text", "markdown", "json"}
	validLevels       = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  ❌ %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s\n", warn))
		}
	}

	return sb.String()
}

// Err converts a failed result into a config error, or nil.
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ConfigError(strings.TrimSpace(vr.Error()))
}

// Validate validates configuration for the given context
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateStorage(result)
	c.validateLogging(result)
	c.validateOutput(result)

	if ctx == ValidationContextPublish {
		c.validateGitHub(result)
	}

	return result
}

func (c *Config) validateStorage(result *ValidationResult) {
	if !contains(validStorageTypes, c.Storage.Type) {
		result.AddError("storage.type %q is not one of %s", c.Storage.Type, strings.Join(validStorageTypes, ", "))
		return
	}

	switch c.Storage.Type {
	case "file", "bolt", "sqlite":
		if c.Storage.Path == "" {
			result.AddError("storage.path is required for %s storage", c.Storage.Type)
		}
	case "postgres":
		dsn := c.Storage.PostgresDSN
		if dsn == "" {
			result.AddError("POSTGRES_DSN is required but not set")
			break
		}
		if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
			result.AddError("POSTGRES_DSN must start with postgres:// or postgresql://")
		}
		if strings.Contains(dsn, "sslmode=disable") {
			result.AddWarning("PostgreSQL DSN has sslmode=disable. Consider enabling SSL outside local development.")
		}
		if d := c.Storage.PostgresDriver; d != "" && d != "pgx" && d != "postgres" {
			result.AddError("storage.postgres_driver %q must be pgx or postgres", d)
		}
	case "memory":
		result.AddWarning("memory storage discards every change when the process exits")
	}
}

func (c *Config) validateLogging(result *ValidationResult) {
	if c.Logging.Level != "" && !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		result.AddWarning("logging.level %q is not recognized, using info", c.Logging.Level)
	}
}

func (c *Config) validateOutput(result *ValidationResult) {
	if !contains(validFormats, c.Output.Format) {
		result.AddError("output.format %q is not one of %s", c.Output.Format, strings.Join(validFormats, ", "))
	}
}

func (c *Config) validateGitHub(result *ValidationResult) {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		result.AddError("github.owner and github.repo are required to publish releases")
	}
	if c.GitHub.BaseURL != "" {
		if u, err := url.Parse(c.GitHub.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			result.AddError("github.base_url %q is not a valid URL", c.GitHub.BaseURL)
		}
	}
	if c.GitHub.RateLimit <= 0 {
		result.AddError("github.rate_limit must be positive")
	}
	if c.GitHub.Concurrency <= 0 {
		result.AddWarning("github.concurrency must be positive, using 1")
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
