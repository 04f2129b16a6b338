package config

import (
	"testing"

	"github.com/rohankatakam/relver/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate_Storage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default file", func(c *Config) {}, false},
		{"unknown type", func(c *Config) { c.Storage.Type = "redis" }, true},
		{"bolt without path", func(c *Config) { c.Storage.Type = "bolt"; c.Storage.Path = "" }, true},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"postgres bad scheme", func(c *Config) {
			c.Storage.Type = "postgres"
			c.Storage.PostgresDSN = "mysql://x"
		}, true},
		{"postgres bad driver", func(c *Config) {
			c.Storage.Type = "postgres"
			c.Storage.PostgresDSN = "postgres://localhost/relver"
			c.Storage.PostgresDriver = "odbc"
		}, true},
		{"postgres ok", func(c *Config) {
			c.Storage.Type = "postgres"
			c.Storage.PostgresDSN = "postgresql://localhost/relver"
			c.Storage.PostgresDriver = "postgres"
		}, false},
		{"memory", func(c *Config) { c.Storage.Type = "memory"; c.Storage.Path = "" }, false},
		{"bad format", func(c *Config) { c.Output.Format = "html" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			result := cfg.Validate(ValidationContextLedger)
			assert.Equal(t, tt.wantErr, result.HasErrors(), result.Error())
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Storage.Type = "postgres"
	cfg.Storage.PostgresDSN = "postgres://localhost/relver?sslmode=disable"
	cfg.Logging.Level = "loud"

	result := cfg.Validate(ValidationContextLedger)
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Warnings, 2)
	assert.NoError(t, result.Err())
}

func TestValidate_Publish(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Validate(ValidationContextLedger).HasErrors())

	result := cfg.Validate(ValidationContextPublish)
	assert.True(t, result.HasErrors())
	assert.Contains(t, result.Error(), "github.owner and github.repo")

	err := result.Err()
	assert.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfig, errors.GetType(err))

	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "widgets"
	cfg.GitHub.BaseURL = "not a url"
	assert.True(t, cfg.Validate(ValidationContextPublish).HasErrors())

	cfg.GitHub.BaseURL = "https://ghe.example.com/api/v3/"
	assert.False(t, cfg.Validate(ValidationContextPublish).HasErrors())
}
