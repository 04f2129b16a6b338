package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rohankatakam/relver/internal/config"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive setup wizard for relver (with OS keychain support)",
	Long: `Walk through relver configuration step-by-step.

This will configure:
1. Storage backend for the ledger
2. GitHub repository for 'relver publish'
3. GitHub token (stored in OS keychain by default)`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 relver Configuration Wizard")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	ask := func(prompt, current string) string {
		if current != "" {
			fmt.Printf("%s [%s]: ", prompt, current)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(response)
		if response == "" {
			return current
		}
		return response
	}

	// Step 1: Storage
	fmt.Println("Step 1/3: Storage")
	fmt.Println("  file | bolt | sqlite | postgres")
	cfg.Storage.Type = ask("Storage type", cfg.Storage.Type)
	switch cfg.Storage.Type {
	case "bolt":
		if filepath.Ext(cfg.Storage.Path) != ".db" {
			cfg.Storage.Path = filepath.Join(config.DefaultDir, "ledger.db")
		}
		cfg.Storage.Path = ask("Database file", cfg.Storage.Path)
	case "sqlite":
		if filepath.Ext(cfg.Storage.Path) != ".sqlite" {
			cfg.Storage.Path = filepath.Join(config.DefaultDir, "ledger.sqlite")
		}
		cfg.Storage.Path = ask("Database file", cfg.Storage.Path)
	case "postgres":
		fmt.Println("  The DSN is read from POSTGRES_DSN or DATABASE_URL when left empty.")
		cfg.Storage.PostgresDSN = ask("PostgreSQL DSN", cfg.Storage.PostgresDSN)
		cfg.Storage.PostgresDriver = ask("Driver (pgx or postgres)", cfg.Storage.PostgresDriver)
	default:
		cfg.Storage.Path = ask("Ledger file", cfg.Storage.Path)
	}
	fmt.Println()

	// Step 2: GitHub repository
	fmt.Println("Step 2/3: GitHub repository (optional, used by publish)")
	cfg.GitHub.Owner = ask("Owner", cfg.GitHub.Owner)
	cfg.GitHub.Repo = ask("Repository", cfg.GitHub.Repo)
	fmt.Println()

	// Step 3: Token
	fmt.Println("Step 3/3: GitHub token")
	km := config.NewKeyringManager(logger)
	cm := config.NewCredentialManager(km)
	source := km.GetTokenSource(cm.CredentialsPath())
	fmt.Printf("Current source: %s\n", source.Recommended)

	keep := source.Source != "none"
	if keep {
		keep = strings.ToLower(ask("Keep existing token? (Y/n)", "y")) == "y"
	}
	if !keep {
		token, err := cm.PromptToken("Enter GitHub token (or press Enter to skip): ")
		if err != nil {
			return err
		}
		if token != "" {
			if err := cm.SaveCredentials(config.Credentials{GitHubToken: token}); err != nil {
				return err
			}
			if km.IsAvailable() {
				fmt.Printf("✅ Token saved to OS keychain\n   📍 %s\n", keychainLocation())
			} else {
				fmt.Printf("✅ Token saved to %s\n", cm.CredentialsPath())
			}
		}
	}
	fmt.Println()

	if result := cfg.Validate(config.ValidationContextLedger); result.HasErrors() {
		fmt.Print(result.Error())
		return result.Err()
	}

	path := cfgFile
	if path == "" {
		path = filepath.Join(config.DefaultDir, "config.yaml")
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("✅ Configuration saved to %s\n", path)
	return nil
}

func keychainLocation() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain Access → \"" + config.KeyringService + "\""
	case "windows":
		return "Windows Credential Manager → \"" + config.KeyringService + "\""
	default:
		return "Secret Service (libsecret) → \"" + config.KeyringService + "\""
	}
}
