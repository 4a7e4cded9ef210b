package cookienonce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/utils"
)

const (
	// Login pages are only scanned for an error block; nonces are tiny.
	maxLoginPageBytes = 1 << 20
	maxNonceBytes     = 4 << 10
)

// login runs the two-step sequence and returns the fresh nonce.
func (a *Authenticator) login(ctx context.Context) (string, error) {
	nonceURL, err := a.creds.NonceURL()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidNonceURL, err)
	}
	if err := a.submitCredentials(ctx); err != nil {
		return "", err
	}
	return a.fetchNonce(ctx, nonceURL)
}

func (a *Authenticator) submitCredentials(ctx context.Context) error {
	body, contentType, err := utils.PrepareBody(map[string]interface{}{
		"log":        a.creds.Username,
		"pwd":        a.creds.Password,
		"rememberme": "true",
	}, utils.ContentTypeForm)
	if err != nil {
		return &LoginError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.creds.LoginURL, bytes.NewReader(body))
	if err != nil {
		return &LoginError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.doer.Do(req)
	if err != nil {
		return &LoginError{Err: err}
	}
	defer drainAndClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &LoginError{
			StatusCode: resp.StatusCode,
			Err:        &dto.StatusError{StatusCode: resp.StatusCode, Method: req.Method, URL: a.creds.LoginURL},
		}
	}

	// WordPress answers a bad password with 200 and the login form again.
	page, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginPageBytes))
	if err != nil {
		return &LoginError{StatusCode: resp.StatusCode, Err: err}
	}
	if msg, rejected := findLoginError(page); rejected {
		return &LoginError{StatusCode: resp.StatusCode, Message: msg, Err: ErrLoginRejected}
	}
	return nil
}

func (a *Authenticator) fetchNonce(ctx context.Context, nonceURL *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nonceURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidNonceURL, err)
	}

	resp, err := a.doer.Do(req)
	if err != nil {
		return "", &NonceRequestError{Err: err}
	}
	defer drainAndClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NonceRequestError{
			StatusCode: resp.StatusCode,
			Err:        &dto.StatusError{StatusCode: resp.StatusCode, Method: req.Method, URL: nonceURL.String()},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxNonceBytes))
	if err != nil {
		return "", &NonceRequestError{StatusCode: resp.StatusCode, Err: err}
	}
	nonce := strings.TrimSpace(string(body))
	if nonce == "" {
		return "", ErrMissingNonce
	}
	return nonce, nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body) // drain fully for connection reuse
	_ = resp.Body.Close()
}
