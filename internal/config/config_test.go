package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "GH_TOKEN", "GITHUB_REPOSITORY", "GITHUB_RATE_LIMIT",
		"POSTGRES_DSN", "DATABASE_URL", "RELVER_STORAGE_TYPE", "RELVER_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, filepath.Join(".relver", "version.json"), cfg.Storage.Path)
	assert.Equal(t, "pgx", cfg.Storage.PostgresDriver)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "v", cfg.GitHub.TagPrefix)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Validate(ValidationContextLedger).HasErrors())
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  type: bolt
  path: /tmp/relver/ledger.db
github:
  owner: acme
  repo: widgets
output:
  format: markdown
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("RELVER_STORAGE_TYPE", "sqlite")
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/relver/ledger.db", cfg.Storage.Path)
	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, "widgets", cfg.GitHub.Repo)
	assert.Equal(t, "ghp_from_env", cfg.GitHub.Token)
	assert.Equal(t, "markdown", cfg.Output.Format)
	// Untouched keys keep their defaults
	assert.Equal(t, 5, cfg.GitHub.RateLimit)
	assert.Equal(t, "default", cfg.Storage.DocumentName)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/relver")
	t.Setenv("GH_TOKEN", "ghp_gh")
	t.Setenv("GITHUB_RATE_LIMIT", "12")
	t.Setenv("GITHUB_REPOSITORY", "octo/cat")

	cfg := Default()
	applyEnvOverrides(cfg)

	assert.Equal(t, "postgres://db/relver", cfg.Storage.PostgresDSN)
	assert.Equal(t, "ghp_gh", cfg.GitHub.Token)
	assert.Equal(t, 12, cfg.GitHub.RateLimit)
	assert.Equal(t, "octo", cfg.GitHub.Owner)
	assert.Equal(t, "cat", cfg.GitHub.Repo)
}

func TestApplyEnvOverrides_ExplicitOwnerWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_REPOSITORY", "octo/cat")

	cfg := Default()
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "widgets"
	applyEnvOverrides(cfg)

	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, "widgets", cfg.GitHub.Repo)
}

func TestSave_OmitsToken(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Storage.Type = "bolt"
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Token = "ghp_secret_value"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ghp_secret_value")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt", loaded.Storage.Type)
	assert.Equal(t, "acme", loaded.GitHub.Owner)
	assert.Empty(t, loaded.GitHub.Token)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, "rel/path", expandPath("rel/path"))
	assert.Equal(t, filepath.Join(home, ".relver", "x.db"), expandPath("~/.relver/x.db"))
}

func TestDetectMode(t *testing.T) {
	clearEnv(t)
	for _, key := range []string{"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "JENKINS_URL", "BUILDKITE", "TF_BUILD"} {
		t.Setenv(key, "")
	}
	assert.Equal(t, ModeInteractive, DetectMode())
	assert.True(t, DetectMode().AllowsInteractivePrompts())

	t.Setenv("GITHUB_ACTIONS", "true")
	assert.Equal(t, ModeCI, DetectMode())
	assert.False(t, DetectMode().AllowsInteractivePrompts())

	t.Setenv("RELVER_MODE", "dev")
	assert.Equal(t, ModeInteractive, DetectMode())
}
