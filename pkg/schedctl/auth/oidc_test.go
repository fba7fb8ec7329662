package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeProvider(t *testing.T, tokenHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                        server.URL,
			"authorization_endpoint":        server.URL + "/auth",
			"token_endpoint":                server.URL + "/token",
			"device_authorization_endpoint": server.URL + "/device",
			"jwks_uri":                      server.URL + "/keys",
		})
	})
	mux.HandleFunc("/device", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "abc",
			"user_code":        "XYZ-123",
			"verification_uri": "https://idp.example.com/activate",
			"expires_in":       60,
			"interval":         1,
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		tokenHandler(w, r)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDeviceCodeLogin(t *testing.T) {
	t.Setenv("SCHEDCTL_NO_BROWSER", "true")

	var tokenCalls int32
	server := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.Form.Get("grant_type"))
		assert.Equal(t, "abc", r.Form.Get("device_code"))
		if atomic.AddInt32(&tokenCalls, 1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authorization_pending"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "device-token",
			"refresh_token": "device-refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	token, err := Login(ctx, ProviderConfig{Issuer: server.URL, ClientID: "schedctl"})
	require.NoError(t, err)
	assert.Equal(t, "device-token", token.AccessToken)
	assert.Equal(t, "device-refresh", token.RefreshToken)
	assert.False(t, token.Expired())
}

func TestClientCredentialsLogin(t *testing.T) {
	server := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "svc-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	token, err := Login(context.Background(), ProviderConfig{
		Issuer:       server.URL,
		ClientID:     "schedctl-svc",
		ClientSecret: "s3cret",
		GrantType:    GrantClientCredentials,
	})
	require.NoError(t, err)
	assert.Equal(t, "svc-token", token.AccessToken)
}

func TestRefresh(t *testing.T) {
	server := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	stale := StoredToken{
		AccessToken:  "stale-token",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Minute),
	}
	refreshed, err := Refresh(context.Background(), ProviderConfig{Issuer: server.URL, ClientID: "schedctl"}, stale)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", refreshed.AccessToken)
	// provider did not rotate the refresh token, keep the old one
	assert.Equal(t, "old-refresh", refreshed.RefreshToken)
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	_, err := Refresh(context.Background(), ProviderConfig{Issuer: "https://idp.example.com", ClientID: "schedctl"}, StoredToken{AccessToken: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no refresh token")
}

func TestLoginUnsupportedGrant(t *testing.T) {
	_, err := Login(context.Background(), ProviderConfig{
		Issuer:    "https://idp.example.com",
		ClientID:  "schedctl",
		GrantType: "password",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported grant type")
}

func TestLoginRequiresIssuerAndClientID(t *testing.T) {
	_, err := Login(context.Background(), ProviderConfig{ClientID: "schedctl"})
	require.Error(t, err)

	_, err = Login(context.Background(), ProviderConfig{Issuer: "https://idp.example.com"})
	require.Error(t, err)
}

func TestResolveClientSecret(t *testing.T) {
	t.Run("inline wins", func(t *testing.T) {
		secret, err := ResolveClientSecret("inline", "IGNORED_ENV", "ignored-file")
		require.NoError(t, err)
		assert.Equal(t, "inline", secret)
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("SCHEDCTL_TEST_SECRET", "  from-env\n")
		secret, err := ResolveClientSecret("", "SCHEDCTL_TEST_SECRET", "")
		require.NoError(t, err)
		assert.Equal(t, "from-env", secret)
	})

	t.Run("env unset errors", func(t *testing.T) {
		_, err := ResolveClientSecret("", "SCHEDCTL_UNSET_SECRET", "")
		require.Error(t, err)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
		secret, err := ResolveClientSecret("", "", path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", secret)
	})

	t.Run("nothing configured", func(t *testing.T) {
		secret, err := ResolveClientSecret("", "", "")
		require.NoError(t, err)
		assert.Equal(t, "", secret)
	})
}
