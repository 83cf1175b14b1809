// Package secrets keeps credentials such as the database DSN in the OS
// keyring, with a private file fallback where no keyring is available.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "bizscrape"
	// FallbackDir is the directory for file-based storage, relative to home
	FallbackDir = ".bizscrape/secrets"
	// DSNKey names the stored database DSN
	DSNKey = "database-dsn"
)

// ErrNotFound is returned when no secret is stored under a name
var ErrNotFound = errors.New("secret not found")

// Vault reads and writes named secrets
type Vault struct {
	service string
	dir     string
	useFile bool
}

var (
	defaultOnce  sync.Once
	defaultVault *Vault
)

// Default returns the keyring vault, or a file vault in environments
// without a usable keyring (Codespaces, CI, headless Linux)
func Default() *Vault {
	defaultOnce.Do(func() {
		if useFileBasedStorage() {
			dir := FallbackDir
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, FallbackDir)
			}
			defaultVault = NewFileVault(dir)
			return
		}
		defaultVault = NewKeyringVault(KeyringService)
	})
	return defaultVault
}

// NewKeyringVault stores secrets in the OS keyring under service
func NewKeyringVault(service string) *Vault {
	return &Vault{service: service}
}

// NewFileVault stores secrets as 0600 files in dir
func NewFileVault(dir string) *Vault {
	return &Vault{dir: dir, useFile: true}
}

func useFileBasedStorage() bool {
	if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
		return true
	}
	testKey := "_test_keyring_access_"
	if err := keyring.Set(KeyringService, testKey, "test"); err != nil {
		return true
	}
	keyring.Delete(KeyringService, testKey)
	return false
}

// Backend names where secrets are kept
func (v *Vault) Backend() string {
	if v.useFile {
		return "file " + v.dir
	}
	return "keyring " + v.service
}

// Set stores a secret
func (v *Vault) Set(name, value string) error {
	if name == "" {
		return fmt.Errorf("secret name cannot be empty")
	}
	if v.useFile {
		if err := os.MkdirAll(v.dir, 0700); err != nil {
			return fmt.Errorf("failed to create secrets dir: %w", err)
		}
		if err := os.WriteFile(v.path(name), []byte(value), 0600); err != nil {
			return fmt.Errorf("failed to save secret file: %w", err)
		}
		return nil
	}
	if err := keyring.Set(v.service, name, value); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// Get loads a secret
func (v *Vault) Get(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("secret name cannot be empty")
	}
	if v.useFile {
		data, err := os.ReadFile(v.path(name))
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to load secret file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	value, err := keyring.Get(v.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load from keyring: %w", err)
	}
	return value, nil
}

// Delete removes a secret; deleting a missing secret is not an error
func (v *Vault) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("secret name cannot be empty")
	}
	if v.useFile {
		if err := os.Remove(v.path(name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete secret file: %w", err)
		}
		return nil
	}
	err := keyring.Delete(v.service, name)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

func (v *Vault) path(name string) string {
	return filepath.Join(v.dir, filepath.Base(name))
}
