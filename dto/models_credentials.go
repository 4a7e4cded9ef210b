package dto

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	WPLoginPath = "/wp-login.php"
	WPAdminPath = "/wp-admin"
	// WPNoncePath is appended to the admin endpoint to fetch a REST nonce.
	WPNoncePath = "/admin-ajax.php?action=rest-nonce"
)

var ErrEmptyUsername = errors.New("credentials: empty username")

// Credentials are the site login details a re-authenticator is built with.
// They are never mutated after construction.
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"password"`
	LoginURL string `json:"login_url" yaml:"login_url"`
	AdminURL string `json:"admin_url" yaml:"admin_url"`
}

// CredentialsForSite derives the standard WordPress login and admin endpoints from a site address.
func CredentialsForSite(siteURL, username, password string) Credentials {
	site := strings.TrimSuffix(strings.TrimSpace(siteURL), "/")
	return Credentials{
		Username: username,
		Password: password,
		LoginURL: site + WPLoginPath,
		AdminURL: site + WPAdminPath,
	}
}

func (c Credentials) Validate() error {
	if c.Username == "" {
		return ErrEmptyUsername
	}
	for name, raw := range map[string]string{"login_url": c.LoginURL, "admin_url": c.AdminURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("credentials: %s: %w", name, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("credentials: %s %q is not absolute", name, raw)
		}
	}
	return nil
}

// NonceURL is the admin-ajax endpoint returning a fresh REST nonce.
func (c Credentials) NonceURL() (*url.URL, error) {
	u, err := url.Parse(strings.TrimSuffix(c.AdminURL, "/") + WPNoncePath)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not absolute", u.String())
	}
	return u, nil
}
