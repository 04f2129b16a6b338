package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "relver"

	// KeyringGitHubTokenItem is the key for the GitHub release token
	KeyringGitHubTokenItem = "github-token"
)

// KeyringManager handles secure credential storage in OS keychain
type KeyringManager struct {
	logger logrus.FieldLogger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager(logger logrus.FieldLogger) *KeyringManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &KeyringManager{
		logger: logger.WithField("component", "keyring"),
	}
}

// GetGitHubToken retrieves GitHub token from OS keychain
func (km *KeyringManager) GetGitHubToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringGitHubTokenItem)
	if err == keyring.ErrNotFound {
		// Not an error - just not set yet
		return "", nil
	}
	if err != nil {
		km.logger.WithError(err).Error("failed to get GitHub token from keychain")
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	km.logger.Debug("github token retrieved from keychain")
	return token, nil
}

// SetGitHubToken stores GitHub token securely in OS keychain
// - macOS: Keychain Access.app → "relver" → "github-token"
// - Windows: Credential Manager → "relver"
// - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SetGitHubToken(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringGitHubTokenItem, token); err != nil {
		km.logger.WithError(err).Error("failed to save GitHub token to keychain")
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.WithField("service", KeyringService).Info("github token saved to keychain")
	return nil
}

// DeleteGitHubToken removes GitHub token from OS keychain
func (km *KeyringManager) DeleteGitHubToken() error {
	err := keyring.Delete(KeyringService, KeyringGitHubTokenItem)
	if err == keyring.ErrNotFound {
		// Already deleted, not an error
		return nil
	}
	if err != nil {
		km.logger.WithError(err).Error("failed to delete GitHub token from keychain")
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("github token deleted from keychain")
	return nil
}

// IsAvailable checks if OS keychain is available
// Returns false on headless systems (CI/CD) where keychain isn't available
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.WithError(err).Debug("keychain not available")
		return false
	}
	return true
}

// TokenSourceInfo describes where the GitHub token is coming from
type TokenSourceInfo struct {
	Source      string // "env", "keychain", "credentials_file", "none"
	Secure      bool
	Recommended string
}

// GetTokenSource determines where the GitHub token is coming from
func (km *KeyringManager) GetTokenSource(credentialsPath string) TokenSourceInfo {
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if os.Getenv(envVar) != "" {
			return TokenSourceInfo{
				Source:      "env",
				Secure:      true,
				Recommended: "Using " + envVar + " (good for CI/CD)",
			}
		}
	}

	if token, _ := km.GetGitHubToken(); token != "" {
		return TokenSourceInfo{
			Source:      "keychain",
			Secure:      true,
			Recommended: "Stored securely in OS keychain ✅",
		}
	}

	if creds, err := loadCredentialsFile(credentialsPath); err == nil && creds.GitHubToken != "" {
		return TokenSourceInfo{
			Source:      "credentials_file",
			Secure:      false,
			Recommended: "⚠️  Plaintext storage detected. Run: relver configure",
		}
	}

	return TokenSourceInfo{
		Source:      "none",
		Secure:      false,
		Recommended: "No GitHub token configured. Run: relver configure",
	}
}

// MaskToken masks a token for display
// Shows first 4 chars and last 4 chars: "ghp_...abcd"
func MaskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", token[:4], token[len(token)-4:])
}
