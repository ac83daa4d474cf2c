package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements Store using environment variables. It is
// read-only and exists so containerized deployments need no keychain.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets the credentials from environment variables
func (e *EnvironmentStore) Retrieve() (*Credentials, error) {
	clientID := os.Getenv("IG_CLIENT_ID")
	clientSecret := os.Getenv("IG_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Credentials{
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		RedirectURI:     os.Getenv("IG_REDIRECT_URI"),
		ShortLivedToken: os.Getenv("IG_SHORT_TOKEN"),
		LastModified:    time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials are set
func (e *EnvironmentStore) Exists() bool {
	return os.Getenv("IG_CLIENT_ID") != "" && os.Getenv("IG_CLIENT_SECRET") != ""
}
