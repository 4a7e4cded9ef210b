package noncenet

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/noncenet/auth/apppassword"
	"github.com/joy-dx/noncenet/auth/cookienonce"
	"github.com/joy-dx/noncenet/client/httpclient"
	"github.com/joy-dx/noncenet/config"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/utils"
	"golang.org/x/oauth2"
)

var (
	ErrEmptySiteRef    = errors.New("empty site ref")
	ErrReservedSiteRef = errors.New("site ref is reserved for the default client")
	ErrUnknownSite     = errors.New("site not registered")
)

// RegisterSite adds an HTTP client for a WordPress site whose expired cookie
// sessions are recovered with a fresh REST nonce. The client and the
// authenticator share one cookie jar so the login cookies reach REST calls.
// Registering a ref again replaces the previous client and session.
func (s *NetSvc) RegisterSite(ref string, creds dto.Credentials, opts ...cookienonce.Option) (*cookienonce.Authenticator, error) {
	return s.registerSite(ref, creds, nil, opts)
}

// RegisterSiteConfig registers a configured site. An application password is
// sent as Basic auth and a WordPress.com token as Bearer auth on every call,
// with the cookie nonce still recovering expired sessions.
func (s *NetSvc) RegisterSiteConfig(site config.SiteConfig, opts ...cookienonce.Option) (*cookienonce.Authenticator, error) {
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Ref, err)
	}

	var headerAuth func(*httpclient.HTTPClientConfig)
	switch {
	case site.ApplicationPassword != "":
		headerAuth = func(c *httpclient.HTTPClientConfig) {
			c.WithAuthProvider(apppassword.New(site.Username, site.ApplicationPassword))
		}
	case site.WPComToken != "":
		headerAuth = func(c *httpclient.HTTPClientConfig) {
			c.WithOAuthSource(oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: site.WPComToken,
				TokenType:   "Bearer",
			}))
		}
	}
	return s.registerSite(site.Ref, site.Credentials(), headerAuth, opts)
}

func (s *NetSvc) registerSite(
	ref string,
	creds dto.Credentials,
	headerAuth func(*httpclient.HTTPClientConfig),
	opts []cookienonce.Option,
) (*cookienonce.Authenticator, error) {
	switch {
	case ref == "":
		return nil, ErrEmptySiteRef
	case ref == dto.NET_DEFAULT_CLIENT_REF:
		return nil, ErrReservedSiteRef
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("site %s: %w", ref, err)
	}

	clientCfg := httpclient.DefaultHTTPClientConfig()
	clientCfg.WithCookieJar(utils.NewCookieJar()).
		WithMiddleware(httpclient.RelayMiddleware(s.relay))
	if headerAuth != nil {
		headerAuth(&clientCfg)
	}
	client := httpclient.NewHTTPClient(ref, s.cfg, &clientCfg)

	var auth *cookienonce.Authenticator
	authOpts := append([]cookienonce.Option{
		cookienonce.WithHTTPDoer(client.Doer()),
		cookienonce.WithRelay(s.relay),
		cookienonce.WithRef(ref),
		cookienonce.WithObserver(func(n dto.SessionNotification) {
			s.publishSiteSession(ref, auth, n)
		}),
	}, opts...)
	auth = cookienonce.New(creds, authOpts...)
	clientCfg.WithInterceptor(auth)

	s.muClients.Lock()
	s.clients[ref] = client
	s.sites[ref] = auth
	s.muClients.Unlock()

	s.publishSiteSession(ref, auth, dto.SessionNotification{
		Ref:      ref,
		Status:   dto.SESSION_IDLE,
		CanRetry: true,
		Message:  "site registered",
	})
	return auth, nil
}

// publishSiteSession drops updates from an authenticator that was replaced
// by a later registration of the same ref.
func (s *NetSvc) publishSiteSession(ref string, auth *cookienonce.Authenticator, n dto.SessionNotification) {
	s.muClients.RLock()
	defer s.muClients.RUnlock()
	if s.sites[ref] != auth {
		return
	}
	s.publishSessionUpdate(n)
}

// Login authenticates a registered site up front instead of waiting for the first 401.
func (s *NetSvc) Login(ctx context.Context, ref string) error {
	auth, ok := s.Authenticator(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSite, ref)
	}
	return auth.Authenticate(ctx)
}

// SiteGet fetches a URL through a site's authenticated client.
func (s *NetSvc) SiteGet(ctx context.Context, ref, url string, withRetry bool) (dto.Response, error) {
	if _, ok := s.Authenticator(ref); !ok {
		return dto.Response{}, fmt.Errorf("%w: %s", ErrUnknownSite, ref)
	}
	httpRequestConfig := httpclient.DefaultHTTPRequestConfig()
	httpRequestConfig.WithURL(url)
	cfg := dto.DefaultRequestConfig()
	cfg.WithClientRef(ref).
		WithReqConfig(&httpRequestConfig).
		WithTaskName("GET " + url)

	if withRetry {
		return s.RequestWithRetry(ctx, &cfg)
	}
	return s.RequestOnce(ctx, &cfg)
}
