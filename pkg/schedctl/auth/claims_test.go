package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestExtractUser(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{
			name:   "email preferred",
			claims: jwt.MapClaims{"email": "ops@example.com", "preferred_username": "ops", "sub": "u-1"},
			want:   "ops@example.com",
		},
		{
			name:   "username fallback",
			claims: jwt.MapClaims{"preferred_username": "ops", "sub": "u-1"},
			want:   "ops",
		},
		{
			name:   "sub fallback",
			claims: jwt.MapClaims{"sub": "u-1"},
			want:   "u-1",
		},
		{
			name:   "no identity claims",
			claims: jwt.MapClaims{"scope": "jobs"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUser(signedToken(t, tt.claims)))
		})
	}
}

func TestExtractUserOpaqueToken(t *testing.T) {
	assert.Equal(t, "", ExtractUser("not-a-jwt"))
	assert.Equal(t, "", ExtractUser(""))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "u-1", "exp": exp.Unix()})
	assert.True(t, TokenExpiry(token).Equal(exp))
}

func TestTokenExpiryAbsent(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u-1"})
	assert.True(t, TokenExpiry(token).IsZero())
	assert.True(t, TokenExpiry("opaque").IsZero())
	assert.True(t, TokenExpiry("").IsZero())
}
