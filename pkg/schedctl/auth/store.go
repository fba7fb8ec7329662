package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "schedctl"

// Store persists API tokens keyed by cluster name.
type Store interface {
	GetToken(key string) (StoredToken, bool, error)
	SaveToken(key string, token StoredToken) error
	DeleteToken(key string) error
}

// KeyringStore keeps tokens in the OS keychain.
type KeyringStore struct {
	// Service overrides the keyring service name. Used by tests.
	Service string
}

func (s *KeyringStore) service() string {
	if s.Service != "" {
		return s.Service
	}
	return keyringService
}

func (s *KeyringStore) GetToken(key string) (StoredToken, bool, error) {
	secret, err := keyring.Get(s.service(), key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return StoredToken{}, false, nil
		}
		return StoredToken{}, false, fmt.Errorf("keyring read failed: %w", err)
	}
	var token StoredToken
	if err := json.Unmarshal([]byte(secret), &token); err != nil {
		return StoredToken{}, false, fmt.Errorf("failed to parse stored token: %w", err)
	}
	return token, true, nil
}

func (s *KeyringStore) SaveToken(key string, token StoredToken) error {
	content, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := keyring.Set(s.service(), key, string(content)); err != nil {
		return fmt.Errorf("keyring write failed: %w", err)
	}
	return nil
}

func (s *KeyringStore) DeleteToken(key string) error {
	if err := keyring.Delete(s.service(), key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

// NewStore selects a token store backend: "keychain", "file", or ""
// for the default (keychain with file fallback handled by callers).
func NewStore(backend, cachePath string) (Store, error) {
	switch backend {
	case "", "keychain":
		return &KeyringStore{}, nil
	case "file":
		return &FileStore{CachePath: cachePath}, nil
	default:
		return nil, fmt.Errorf("unknown token storage backend: %s", backend)
	}
}
