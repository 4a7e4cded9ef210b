package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/joy-dx/noncenet/dto"
)

// ensureToken renews header credentials that are missing or inside the refresh buffer.
// Clients with neither an OAuth source nor an AuthProvider have nothing to renew.
func (c *HTTPClient) ensureToken(ctx context.Context) error {
	if c.cfg.OAuthSource == nil && c.cfg.AuthProvider == nil {
		return nil
	}

	c.tokenMu.RLock()
	fresh := !c.token.IsExpired(c.cfg.RefreshBuffer)
	c.tokenMu.RUnlock()
	if fresh {
		return nil
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	// another caller may have renewed it while we waited
	if !c.token.IsExpired(c.cfg.RefreshBuffer) {
		return nil
	}
	next, err := c.fetchToken(ctx)
	if err != nil {
		return err
	}
	next.TokenType = authScheme(next.TokenType)
	c.token = next
	return nil
}

// fetchToken asks the configured source for new credentials. Callers hold tokenMu.
func (c *HTTPClient) fetchToken(ctx context.Context) (dto.TokenInfo, error) {
	if src := c.cfg.OAuthSource; src != nil {
		tok, err := src.Token()
		if err != nil {
			return dto.TokenInfo{}, fmt.Errorf("oauth2 token fetch: %w", err)
		}
		return dto.TokenInfo{
			AccessToken: tok.AccessToken,
			TokenType:   tok.TokenType,
			Expiry:      tok.Expiry,
			Cookies:     c.token.Cookies,
		}, nil
	}

	provider := c.cfg.AuthProvider
	if !c.token.HasCredentials() {
		tok, err := provider.Authenticate(ctx)
		if err != nil {
			return dto.TokenInfo{}, fmt.Errorf("auth provider authenticate: %w", err)
		}
		return tok, nil
	}

	tok, refreshErr := provider.Refresh(ctx, c.token)
	if refreshErr == nil {
		return tok, nil
	}
	// a rejected refresh falls back to a full login
	tok, err := provider.Authenticate(ctx)
	if err != nil {
		return dto.TokenInfo{}, fmt.Errorf("auth provider refresh: %w", errors.Join(refreshErr, err))
	}
	return tok, nil
}

// rememberCookies keeps the newest value of each Set-Cookie in the token store.
// Only used when no cookie jar is configured.
func (c *HTTPClient) rememberCookies(header http.Header) {
	received := (&http.Response{Header: header}).Cookies()
	if len(received) == 0 {
		return
	}

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	for _, ck := range received {
		i := slices.IndexFunc(c.token.Cookies, func(have *http.Cookie) bool { return have.Name == ck.Name })
		if i < 0 {
			c.token.Cookies = append(c.token.Cookies, ck)
			continue
		}
		c.token.Cookies[i] = ck
	}
}
