package auth

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ExtractUser pulls a display identity out of a JWT without verifying
// it. Returns "" for opaque tokens.
func ExtractUser(token string) string {
	if token == "" {
		return ""
	}
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	if username, ok := claims["preferred_username"].(string); ok && username != "" {
		return username
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	return ""
}

// TokenExpiry reads the exp claim of a JWT without verifying it.
// Returns the zero time for opaque tokens or tokens without exp.
func TokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return time.Time{}
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0)
	case json.Number:
		if v, err := exp.Int64(); err == nil {
			return time.Unix(v, 0)
		}
	}
	return time.Time{}
}
