package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{Service: "schedctl-test"}

	_, ok, err := store.GetToken("west")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveToken("west", StoredToken{AccessToken: "secret", TokenType: "Bearer"}))

	token, ok, err := store.GetToken("west")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "secret", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	require.NoError(t, store.DeleteToken("west"))
	_, ok, err = store.GetToken("west")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyringStoreDeleteMissing(t *testing.T) {
	keyring.MockInit()
	store := &KeyringStore{Service: "schedctl-test"}
	require.NoError(t, store.DeleteToken("never-stored"))
}

func TestNewStore(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "tokens.json")

	store, err := NewStore("", cachePath)
	require.NoError(t, err)
	assert.IsType(t, &KeyringStore{}, store)

	store, err = NewStore("keychain", cachePath)
	require.NoError(t, err)
	assert.IsType(t, &KeyringStore{}, store)

	store, err = NewStore("file", cachePath)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	_, err = NewStore("vault", cachePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token storage backend")
}
