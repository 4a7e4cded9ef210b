package dto

import (
	"net/http"
	"time"
)

// TokenInfo represents credentials obtained by an AuthProvider or OAuth2 source.
// Sessions held in a cookie jar never appear here.
type TokenInfo struct {
	// Authorization token, e.g. "Bearer abc123" or "Basic Zm9vOmJhcg=="
	AccessToken string
	// TokenType is inferred if not provided (default "Bearer").
	TokenType string
	// Expiry is zero for cookie-only sessions and application passwords.
	Expiry  time.Time
	Cookies []*http.Cookie
}

// HasCredentials reports whether the token carries anything to attach.
func (t *TokenInfo) HasCredentials() bool {
	return t.AccessToken != "" || len(t.Cookies) > 0
}

// IsExpired returns true if the token is missing, or close to or past expiry.
func (t *TokenInfo) IsExpired(buffer time.Duration) bool {
	if !t.HasCredentials() {
		return true
	}
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry.Add(-buffer))
}
