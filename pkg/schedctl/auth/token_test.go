package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCacheRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	cache := &TokenCache{Tokens: map[string]StoredToken{
		"west": {AccessToken: "secret", TokenType: "Bearer"},
	}}
	require.NoError(t, SaveTokenCache(path, cache))

	loaded, err := LoadTokenCache(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", loaded.Tokens["west"].AccessToken)
}

func TestSaveTokenCacheNil(t *testing.T) {
	require.Error(t, SaveTokenCache(filepath.Join(t.TempDir(), "tokens.json"), nil))
}

func TestLoadTokenCacheMissing(t *testing.T) {
	_, err := LoadTokenCache(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestStoredTokenExpired(t *testing.T) {
	assert.False(t, StoredToken{AccessToken: "x"}.Expired())
	assert.False(t, StoredToken{AccessToken: "x", Expiry: time.Now().Add(time.Hour)}.Expired())
	assert.True(t, StoredToken{AccessToken: "x", Expiry: time.Now().Add(-time.Hour)}.Expired())
}

func TestFileStore(t *testing.T) {
	store := &FileStore{CachePath: filepath.Join(t.TempDir(), "tokens.json")}

	_, ok, err := store.GetToken("west")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveToken("west", StoredToken{AccessToken: "secret"}))
	require.NoError(t, store.SaveToken("east", StoredToken{AccessToken: "other"}))

	token, ok, err := store.GetToken("west")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "secret", token.AccessToken)

	require.NoError(t, store.DeleteToken("west"))
	_, ok, err = store.GetToken("west")
	require.NoError(t, err)
	assert.False(t, ok)

	// other entries survive a delete
	_, ok, err = store.GetToken("east")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStoreDeleteMissing(t *testing.T) {
	store := &FileStore{CachePath: filepath.Join(t.TempDir(), "tokens.json")}
	require.NoError(t, store.DeleteToken("west"))
}
