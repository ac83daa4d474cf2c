// Package auth stores the OAuth application credentials (client id,
// secret, redirect URI and an optional pre-provisioned short-lived
// token). The runtime access-token cache is process-local and never
// persisted here.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrCredentialsNotFound indicates no stored credentials exist
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrInvalidCredentials indicates the credentials are incomplete
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStoreUnavailable indicates the backend cannot be used
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// Credentials holds the OAuth application's identity
type Credentials struct {
	ClientID        string    `json:"client_id"`
	ClientSecret    string    `json:"client_secret"`
	RedirectURI     string    `json:"redirect_uri"`
	ShortLivedToken string    `json:"short_lived_token,omitempty"`
	LastModified    time.Time `json:"last_modified"`
}

// Valid reports whether the credentials are complete enough to perform
// a token exchange.
func (c *Credentials) Valid() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}

// Store is the interface for persisting the app credentials
type Store interface {
	// Store saves the credentials
	Store(creds *Credentials) error

	// Retrieve gets the stored credentials
	Retrieve() (*Credentials, error)

	// Delete removes the stored credentials
	Delete() error

	// Exists checks if credentials are stored
	Exists() bool
}

// Manager tries multiple storage backends in order: system keyring,
// encrypted file, environment variables.
type Manager struct {
	stores []Store
}

// NewManager creates a credential manager with the available backends
func NewManager() (*Manager, error) {
	var stores []Store

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit backends
func NewManagerWithStores(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Store saves the credentials using the first backend that accepts them
func (m *Manager) Store(creds *Credentials) error {
	if !creds.Valid() {
		return ErrInvalidCredentials
	}
	creds.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = ErrStoreUnavailable
	}
	return fmt.Errorf("failed to store credentials: %w", lastErr)
}

// Retrieve gets the credentials from the first backend that has them
func (m *Manager) Retrieve() (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(); err == nil {
			return creds, nil
		}
	}
	return nil, ErrCredentialsNotFound
}

// Delete removes the credentials from every backend that has them
func (m *Manager) Delete() error {
	deleted := false
	for _, store := range m.stores {
		if store.Exists() {
			if err := store.Delete(); err == nil {
				deleted = true
			}
		}
	}
	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// Exists checks whether any backend holds credentials
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}

// getConfigDir returns the application's configuration directory
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "igcrawler"), nil
}
