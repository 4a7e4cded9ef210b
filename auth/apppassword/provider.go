// Package apppassword authenticates WordPress REST calls with an application password.
package apppassword

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/joy-dx/noncenet/dto"
)

var ErrMissingPassword = errors.New("apppassword: username and password are required")

// Provider hands the HTTP client a Basic token built from a username and application password.
// The token never expires, so the client asks for it once.
type Provider struct {
	username string
	password string
}

func New(username, password string) *Provider {
	return &Provider{username: username, password: password}
}

func (p *Provider) Authenticate(ctx context.Context) (dto.TokenInfo, error) {
	if err := ctx.Err(); err != nil {
		return dto.TokenInfo{}, err
	}
	if p.username == "" || p.password == "" {
		return dto.TokenInfo{}, ErrMissingPassword
	}
	return dto.TokenInfo{
		AccessToken: base64.StdEncoding.EncodeToString([]byte(p.username + ":" + p.password)),
		TokenType:   "Basic",
	}, nil
}

// Refresh rebuilds the token; application passwords have nothing to renew.
func (p *Provider) Refresh(ctx context.Context, _ dto.TokenInfo) (dto.TokenInfo, error) {
	return p.Authenticate(ctx)
}
