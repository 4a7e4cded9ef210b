package config

import (
	"errors"
	"time"

	"github.com/joy-dx/noncenet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// ErrConflictingSiteAuth is returned when a site sets both an application password and a WordPress.com token.
var ErrConflictingSiteAuth = errors.New("site sets both application_password and wpcom_token")

// SiteConfig describes one WordPress site whose requests are re-authenticated with a cookie nonce.
type SiteConfig struct {
	Ref      string `json:"ref" yaml:"ref"`
	SiteURL  string `json:"site_url" yaml:"site_url"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"password"`
	// LoginURL and AdminURL override the endpoints derived from SiteURL
	LoginURL string `json:"login_url,omitempty" yaml:"login_url,omitempty"`
	AdminURL string `json:"admin_url,omitempty" yaml:"admin_url,omitempty"`
	// ApplicationPassword is sent as Basic auth with Username on REST calls.
	ApplicationPassword string `json:"-" yaml:"application_password,omitempty"`
	// WPComToken is a WordPress.com OAuth token sent as a Bearer header.
	WPComToken string `json:"-" yaml:"wpcom_token,omitempty"`
}

// Validate checks the login details and that at most one header auth is set.
func (s SiteConfig) Validate() error {
	if err := s.Credentials().Validate(); err != nil {
		return err
	}
	if s.ApplicationPassword != "" && s.WPComToken != "" {
		return ErrConflictingSiteAuth
	}
	return nil
}

// Credentials resolves the login details, preferring explicit endpoints over derived ones.
func (s SiteConfig) Credentials() dto.Credentials {
	creds := dto.CredentialsForSite(s.SiteURL, s.Username, s.Password)
	if s.LoginURL != "" {
		creds.LoginURL = s.LoginURL
	}
	if s.AdminURL != "" {
		creds.AdminURL = s.AdminURL
	}
	return creds
}

type NetSvcConfig struct {
	ExtraHeaders   dto.ExtraHeaders `json:"net_extra_headers,omitempty" yaml:"net_extra_headers,omitempty"`
	RequestTimeout time.Duration    `json:"net_request_timeout,omitempty" yaml:"net_request_timeout,omitempty"`
	UserAgent      string           `json:"net_user_agent,omitempty" yaml:"net_user_agent,omitempty"`
	Sites          []SiteConfig     `json:"net_sites,omitempty" yaml:"net_sites,omitempty"`
	relay          relayDTO.RelayInterface
}

func DefaultNetSvcConfig() NetSvcConfig {
	return NetSvcConfig{
		ExtraHeaders:   make(dto.ExtraHeaders),
		RequestTimeout: 30 * time.Second,
		UserAgent:      "noncenet/1.0",
		Sites:          make([]SiteConfig, 0),
	}
}

func (c *NetSvcConfig) Relay() relayDTO.RelayInterface {
	return c.relay
}

func (c *NetSvcConfig) WithRelay(relay relayDTO.RelayInterface) *NetSvcConfig {
	c.relay = relay
	return c
}

func (c *NetSvcConfig) WithRequestTimeout(d time.Duration) *NetSvcConfig {
	c.RequestTimeout = d
	return c
}

func (c *NetSvcConfig) WithUserAgent(agent string) *NetSvcConfig {
	c.UserAgent = agent
	return c
}

func (c *NetSvcConfig) WithExtraHeaders(headers dto.ExtraHeaders) *NetSvcConfig {
	c.ExtraHeaders = headers
	return c
}

func (c *NetSvcConfig) WithSite(site ...SiteConfig) *NetSvcConfig {
	c.Sites = append(c.Sites, site...)
	return c
}

// Site returns the site registered under ref.
func (c *NetSvcConfig) Site(ref string) (SiteConfig, bool) {
	for _, s := range c.Sites {
		if s.Ref == ref {
			return s, true
		}
	}
	return SiteConfig{}, false
}
