package auth

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Grant types accepted by Login.
const (
	GrantDeviceCode        = "device-code"
	GrantClientCredentials = "client-credentials"
)

// ProviderConfig describes the identity provider a cluster
// authenticates against. Endpoints are discovered from the issuer.
type ProviderConfig struct {
	Issuer          string
	ClientID        string
	ClientSecret    string
	Scopes          []string
	GrantType       string
	CAFile          string
	InsecureSkipTLS bool
}

// Login acquires a token from the identity provider. The grant type
// defaults to the device-code flow, which suits a terminal tool with
// no registered redirect URL.
func Login(ctx context.Context, cfg ProviderConfig) (StoredToken, error) {
	switch cfg.GrantType {
	case "", GrantDeviceCode:
		return deviceCodeLogin(ctx, cfg)
	case GrantClientCredentials:
		return clientCredentialsLogin(ctx, cfg)
	default:
		return StoredToken{}, fmt.Errorf("unsupported grant type: %s", cfg.GrantType)
	}
}

func deviceCodeLogin(ctx context.Context, cfg ProviderConfig) (StoredToken, error) {
	oauthCfg, httpClient, err := discoverOAuthConfig(ctx, cfg)
	if err != nil {
		return StoredToken{}, err
	}
	if oauthCfg.Endpoint.DeviceAuthURL == "" {
		return StoredToken{}, errors.New("identity provider does not advertise a device authorization endpoint")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	grant, err := oauthCfg.DeviceAuth(ctx)
	if err != nil {
		return StoredToken{}, fmt.Errorf("device authorization failed: %w", err)
	}
	announceDeviceCode(grant)

	token, err := oauthCfg.DeviceAccessToken(ctx, grant)
	if err != nil {
		return StoredToken{}, fmt.Errorf("device code login failed: %w", err)
	}
	return fromOAuthToken(token), nil
}

func clientCredentialsLogin(ctx context.Context, cfg ProviderConfig) (StoredToken, error) {
	oauthCfg, httpClient, err := discoverOAuthConfig(ctx, cfg)
	if err != nil {
		return StoredToken{}, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     oauthCfg.Endpoint.TokenURL,
		Scopes:       cfg.Scopes,
	}
	token, err := cc.Token(ctx)
	if err != nil {
		return StoredToken{}, fmt.Errorf("client credentials login failed: %w", err)
	}
	return fromOAuthToken(token), nil
}

// Refresh exchanges the stored refresh token for a fresh access token.
func Refresh(ctx context.Context, cfg ProviderConfig, token StoredToken) (StoredToken, error) {
	if token.RefreshToken == "" {
		return StoredToken{}, errors.New("no refresh token available")
	}
	oauthCfg, httpClient, err := discoverOAuthConfig(ctx, cfg)
	if err != nil {
		return StoredToken{}, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	src := oauthCfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: token.RefreshToken,
	})
	refreshed, err := src.Token()
	if err != nil {
		return StoredToken{}, fmt.Errorf("token refresh failed: %w", err)
	}
	stored := fromOAuthToken(refreshed)
	if stored.IDToken == "" {
		stored.IDToken = token.IDToken
	}
	if stored.RefreshToken == "" {
		stored.RefreshToken = token.RefreshToken
	}
	return stored, nil
}

// discoverOAuthConfig resolves the provider's endpoints through OIDC
// discovery and returns the oauth2 configuration together with the
// HTTP client all provider traffic must go through.
func discoverOAuthConfig(ctx context.Context, cfg ProviderConfig) (*oauth2.Config, *http.Client, error) {
	if cfg.Issuer == "" || cfg.ClientID == "" {
		return nil, nil, errors.New("oidc issuer and client-id are required")
	}
	httpClient, err := providerHTTPClient(cfg.CAFile, cfg.InsecureSkipTLS)
	if err != nil {
		return nil, nil, err
	}
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), cfg.Issuer)
	if err != nil {
		return nil, nil, fmt.Errorf("identity provider discovery failed: %w", err)
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}, httpClient, nil
}

func fromOAuthToken(token *oauth2.Token) StoredToken {
	stored := StoredToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		stored.IDToken = idToken
	}
	return stored
}

func announceDeviceCode(grant *oauth2.DeviceAuthResponse) {
	fmt.Printf("Visit %s and enter code: %s\n", grant.VerificationURI, grant.UserCode)
	target := grant.VerificationURIComplete
	if target == "" {
		target = grant.VerificationURI
	}
	if target != "" && !strings.EqualFold(os.Getenv("SCHEDCTL_NO_BROWSER"), "true") {
		_ = openBrowser(target)
	}
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// ResolveClientSecret picks the client secret from an inline value, an
// environment variable, or a file, in that order of precedence.
func ResolveClientSecret(secret, secretEnv, secretFile string) (string, error) {
	if secret != "" {
		return secret, nil
	}
	if secretEnv != "" {
		value := strings.TrimSpace(os.Getenv(secretEnv))
		if value == "" {
			return "", fmt.Errorf("client secret env var not set: %s", secretEnv)
		}
		return value, nil
	}
	if secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return "", fmt.Errorf("failed to read client secret file: %w", err)
		}
		return strings.TrimSpace(string(content)), nil
	}
	return "", nil
}

func providerHTTPClient(caFile string, insecure bool) (*http.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if insecure {
		tlsConfig.InsecureSkipVerify = true
	}
	if caFile != "" {
		data, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(data) {
			return nil, errors.New("failed to parse CA file")
		}
		tlsConfig.RootCAs = pool
	}
	return &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
		Timeout:   30 * time.Second,
	}, nil
}
