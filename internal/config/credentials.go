package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rohankatakam/relver/internal/errors"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// CredentialManager resolves the GitHub token used by publish.
// Priority: Environment Variables → Keychain → Credentials File → Interactive Prompt
type CredentialManager struct {
	mode            DeploymentMode
	keyring         *KeyringManager
	credentialsPath string
	useKeyring      bool
	in              io.Reader
	out             io.Writer
}

// Credentials is the on-disk fallback when no keychain is available
type Credentials struct {
	GitHubToken string `yaml:"github_token"`
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager(km *KeyringManager) *CredentialManager {
	homeDir, _ := os.UserHomeDir()
	return &CredentialManager{
		mode:            DetectMode(),
		keyring:         km,
		credentialsPath: filepath.Join(homeDir, ".config", "relver", "credentials.yaml"),
		useKeyring:      true,
		in:              os.Stdin,
		out:             os.Stdout,
	}
}

// WithCredentialsPath overrides the credentials file location.
func (cm *CredentialManager) WithCredentialsPath(path string) *CredentialManager {
	cm.credentialsPath = path
	return cm
}

// WithoutKeyring skips the OS keychain (headless hosts and tests).
func (cm *CredentialManager) WithoutKeyring() *CredentialManager {
	cm.useKeyring = false
	return cm
}

// WithMode pins the deployment mode instead of detecting it.
func (cm *CredentialManager) WithMode(mode DeploymentMode) *CredentialManager {
	cm.mode = mode
	return cm
}

func (cm *CredentialManager) keyringAvailable() bool {
	return cm.useKeyring && cm.keyring != nil && cm.keyring.IsAvailable()
}

// GetGitHubToken retrieves the GitHub token using priority chain
func (cm *CredentialManager) GetGitHubToken() (string, error) {
	// 1. Environment variable (highest priority)
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			return token, nil
		}
	}

	// 2. Keychain
	if cm.keyringAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return token, nil
		}
	}

	// 3. Credentials file
	if creds, err := loadCredentialsFile(cm.credentialsPath); err == nil && creds.GitHubToken != "" {
		return creds.GitHubToken, nil
	}

	// 4. Interactive prompt (never in CI)
	if cm.mode.AllowsInteractivePrompts() && isInteractive() {
		fmt.Fprintln(cm.out, "\n⚠️  GitHub Token not found.")
		fmt.Fprintln(cm.out, "   Required to publish releases (scope: repo or contents:write)")
		fmt.Fprintln(cm.out, "   Create one at: https://github.com/settings/tokens")
		fmt.Fprint(cm.out, "\nEnter GitHub Token: ")

		token, err := cm.readSecurely()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityHigh, "failed to read GitHub token")
		}
		if token != "" {
			if err := cm.SaveCredentials(Credentials{GitHubToken: token}); err == nil {
				fmt.Fprintln(cm.out, "✓ Token saved")
			}
			return token, nil
		}
	}

	return "", errors.ConfigErrorf(
		"GITHUB_TOKEN not found. Set it via:\n"+
			"  1. Environment variable: export GITHUB_TOKEN=ghp_...\n"+
			"  2. Run: relver configure (to set up keychain)\n"+
			"  3. Credentials file: %s", cm.credentialsPath)
}

// SaveCredentials saves credentials to keychain (preferred) or credentials file (fallback)
func (cm *CredentialManager) SaveCredentials(creds Credentials) error {
	if creds.GitHubToken == "" {
		return errors.ValidationError("github token cannot be empty")
	}

	if cm.keyringAvailable() {
		if err := cm.keyring.SetGitHubToken(creds.GitHubToken); err != nil {
			return errors.Wrap(err, errors.ErrorTypeExternal, errors.SeverityHigh,
				"failed to save GitHub token to keychain")
		}
		return nil
	}

	if err := saveCredentialsFile(cm.credentialsPath, creds); err != nil {
		return errors.FileSystemErrorf(err, "failed to write %s", cm.credentialsPath)
	}
	return nil
}

// PromptToken reads a token from the terminal without echo.
func (cm *CredentialManager) PromptToken(prompt string) (string, error) {
	fmt.Fprint(cm.out, prompt)
	return cm.readSecurely()
}

// loadCredentialsFile loads credentials from a yaml file
func loadCredentialsFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// saveCredentialsFile writes credentials with user-only permissions
func saveCredentialsFile(path string, creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// readSecurely reads a token from stdin without echoing
func (cm *CredentialManager) readSecurely() (string, error) {
	if f, ok := cm.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cm.out) // New line after password input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	// Fallback: piped input
	line, err := bufio.NewReader(cm.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive returns true if stdin is a terminal (not piped)
func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// GetMode returns the current deployment mode
func (cm *CredentialManager) GetMode() DeploymentMode {
	return cm.mode
}

// CredentialsPath returns the path to the credentials file
func (cm *CredentialManager) CredentialsPath() string {
	return cm.credentialsPath
}
