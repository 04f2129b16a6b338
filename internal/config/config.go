package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDir is the per-project directory relver keeps its state in.
const DefaultDir = ".relver"

// Config holds all configuration settings
type Config struct {
	// Where the ledger document lives
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// Logging output
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Bump history (JSONL audit trail)
	History HistoryConfig `mapstructure:"history" yaml:"history"`

	// GitHub release publishing
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`

	// Default rendering for show/notes
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

type StorageConfig struct {
	Type           string `mapstructure:"type" yaml:"type"` // "file", "bolt", "sqlite", "postgres"
	Path           string `mapstructure:"path" yaml:"path"`
	DocumentName   string `mapstructure:"document_name" yaml:"document_name"`
	PostgresDSN    string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
	PostgresDriver string `mapstructure:"postgres_driver" yaml:"postgres_driver"` // "pgx" or "postgres"
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

type GitHubConfig struct {
	Owner       string `mapstructure:"owner" yaml:"owner"`
	Repo        string `mapstructure:"repo" yaml:"repo"`
	Token       string `mapstructure:"token" yaml:"token,omitempty"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"` // GitHub Enterprise API root
	RateLimit   int    `mapstructure:"rate_limit" yaml:"rate_limit"`   // Requests per second
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"` // Parallel release uploads
	Draft       bool   `mapstructure:"draft" yaml:"draft"`
	TagPrefix   string `mapstructure:"tag_prefix" yaml:"tag_prefix"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "text", "markdown", "json"
	Color  bool   `mapstructure:"color" yaml:"color"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type:           "file",
			Path:           filepath.Join(DefaultDir, "version.json"),
			DocumentName:   "default",
			PostgresDriver: "pgx",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(DefaultDir, "history.jsonl"),
		},
		GitHub: GitHubConfig{
			RateLimit:   5,
			Concurrency: 4,
			TagPrefix:   "v",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from file. An empty path searches the standard
// locations; a missing config file is not an error.
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	// RELVER_STORAGE_TYPE -> storage.type
	v.SetEnvPrefix("RELVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultDir)
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, DefaultDir))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	return cfg, nil
}

// setDefaults registers every leaf key so AutomaticEnv can see it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.document_name", cfg.Storage.DocumentName)
	v.SetDefault("storage.postgres_dsn", cfg.Storage.PostgresDSN)
	v.SetDefault("storage.postgres_driver", cfg.Storage.PostgresDriver)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.json", cfg.Logging.JSON)
	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("github.owner", cfg.GitHub.Owner)
	v.SetDefault("github.repo", cfg.GitHub.Repo)
	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.base_url", cfg.GitHub.BaseURL)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)
	v.SetDefault("github.concurrency", cfg.GitHub.Concurrency)
	v.SetDefault("github.draft", cfg.GitHub.Draft)
	v.SetDefault("github.tag_prefix", cfg.GitHub.TagPrefix)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.color", cfg.Output.Color)
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			// godotenv.Load never overrides variables that are already set
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, DefaultDir, ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies the conventional, unprefixed environment
// variables shared with other tools.
func applyEnvOverrides(cfg *Config) {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" && cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" && cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = dsn
	}

	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			cfg.GitHub.Token = token
			break
		}
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}

	// owner/repo from GitHub Actions
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" && cfg.GitHub.Owner == "" && cfg.GitHub.Repo == "" {
		if owner, name, ok := strings.Cut(repo, "/"); ok {
			cfg.GitHub.Owner = owner
			cfg.GitHub.Repo = name
		}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to file. The GitHub token is never written;
// it belongs in the keychain or the environment.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	github := c.GitHub
	github.Token = ""

	v.Set("storage", c.Storage)
	v.Set("logging", c.Logging)
	v.Set("history", c.History)
	v.Set("github", github)
	v.Set("output", c.Output)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
