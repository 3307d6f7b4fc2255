package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// BackendCredentials are the project URL and anon key saved by
// `storyshelf auth backend`.
type BackendCredentials struct {
	URL     string `json:"url,omitempty"`
	AnonKey string `json:"anon_key,omitempty"`
}

// CredentialPath returns ~/.storyshelf/credentials.json.
func CredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".storyshelf", "credentials.json"), nil
}

// LoadCredentials reads the credentials file at path. A missing file yields
// empty credentials.
func LoadCredentials(path string) (*BackendCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &BackendCredentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds BackendCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// SaveCredentials writes creds to path, readable only by the owner.
func SaveCredentials(path string, creds *BackendCredentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// ResolveBackend picks the backend URL and key. Values already set (from the
// config file or environment) win; the saved credentials fill the gaps.
func ResolveBackend(url, anonKey, credPath string) (string, string) {
	if url != "" && anonKey != "" {
		return url, anonKey
	}
	creds, err := LoadCredentials(credPath)
	if err != nil {
		return url, anonKey
	}
	if url == "" {
		url = creds.URL
	}
	if anonKey == "" {
		anonKey = creds.AnonKey
	}
	return url, anonKey
}
