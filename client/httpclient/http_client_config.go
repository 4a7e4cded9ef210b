package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/joy-dx/noncenet/dto"
	"golang.org/x/oauth2"
)

type Middleware func(ctx context.Context, req *HTTPRequest) error

// RequestInterceptor adapts every outgoing request and decides whether a
// failed one is sent again. Retry must call completion exactly once.
type RequestInterceptor interface {
	Adapt(req *http.Request) *http.Request
	Retry(req *http.Request, retryCount int, err error, completion func(shouldRetry bool))
}

type HTTPClientConfig struct {
	AuthProvider  dto.AuthProvider
	OAuthSource   oauth2.TokenSource
	RefreshBuffer time.Duration
	Middlewares   []Middleware
	Interceptor   RequestInterceptor
	// CookieJar, when set, owns session cookies instead of the token store
	CookieJar http.CookieJar
	Transport http.RoundTripper
}

func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		RefreshBuffer: 30 * time.Second,
		Middlewares:   make([]Middleware, 0),
	}
}

func (c *HTTPClientConfig) WithAuthProvider(provider dto.AuthProvider) *HTTPClientConfig {
	c.AuthProvider = provider
	return c
}
func (c *HTTPClientConfig) WithOAuthSource(tokenSource oauth2.TokenSource) *HTTPClientConfig {
	c.OAuthSource = tokenSource
	return c
}

// WithRefreshBuffer sets the early-refresh buffer.
func (c *HTTPClientConfig) WithRefreshBuffer(d time.Duration) *HTTPClientConfig {
	c.RefreshBuffer = d
	return c
}
func (c *HTTPClientConfig) WithMiddleware(m ...Middleware) *HTTPClientConfig {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}
func (c *HTTPClientConfig) WithInterceptor(interceptor RequestInterceptor) *HTTPClientConfig {
	c.Interceptor = interceptor
	return c
}
func (c *HTTPClientConfig) WithCookieJar(jar http.CookieJar) *HTTPClientConfig {
	c.CookieJar = jar
	return c
}

// WithTransport replaces the default pooled transport, mostly for tests.
func (c *HTTPClientConfig) WithTransport(rt http.RoundTripper) *HTTPClientConfig {
	c.Transport = rt
	return c
}
