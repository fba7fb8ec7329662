package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StoredToken is an API token cached per cluster.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Expired reports whether the token has a known expiry in the past.
func (t StoredToken) Expired() bool {
	return !t.Expiry.IsZero() && time.Now().After(t.Expiry)
}

type TokenCache struct {
	Tokens map[string]StoredToken `json:"tokens"`
}

func LoadTokenCache(path string) (*TokenCache, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cache TokenCache
	if err := json.Unmarshal(content, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse token cache: %w", err)
	}
	if cache.Tokens == nil {
		cache.Tokens = map[string]StoredToken{}
	}
	return &cache, nil
}

func SaveTokenCache(path string, cache *TokenCache) error {
	if cache == nil {
		return errors.New("token cache is nil")
	}
	if cache.Tokens == nil {
		cache.Tokens = map[string]StoredToken{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	content, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token cache: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

// FileStore keeps tokens in a JSON cache file, keyed by cluster name.
type FileStore struct {
	CachePath string
}

func (s *FileStore) GetToken(key string) (StoredToken, bool, error) {
	cache, err := LoadTokenCache(s.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return StoredToken{}, false, nil
		}
		return StoredToken{}, false, err
	}
	token, ok := cache.Tokens[key]
	return token, ok, nil
}

func (s *FileStore) SaveToken(key string, token StoredToken) error {
	cache, err := LoadTokenCache(s.CachePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		cache = &TokenCache{Tokens: map[string]StoredToken{}}
	}
	cache.Tokens[key] = token
	return SaveTokenCache(s.CachePath, cache)
}

func (s *FileStore) DeleteToken(key string) error {
	cache, err := LoadTokenCache(s.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	delete(cache.Tokens, key)
	return SaveTokenCache(s.CachePath, cache)
}
