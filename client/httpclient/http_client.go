package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/joy-dx/noncenet/config"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/metrics"
	"github.com/joy-dx/noncenet/relays"
	"github.com/joy-dx/noncenet/utils"
)

// -----------------------------------------------------------------------------
// PERSISTENT CLIENT IMPLEMENTATION
// -----------------------------------------------------------------------------

// HTTPClient is a high-level wrapper around net/http,
// providing automatic authentication and session management.
//
// It supports multiple authentication modes:
//   - OAuth2 TokenSource (golang.org/x/oauth2)
//   - Custom AuthProvider
//   - Cookie-based sessions, either captured by hand or held in a cookie jar
//
// A RequestInterceptor, such as the cookie nonce re-authenticator, decorates
// each request and may ask for a failed one to be sent again.

const NetClientHTTPRef dto.NetClientType = "net.client.http"

type HTTPClient struct {
	NetClient dto.NetClient `json:"net_client" yaml:"net_client"`
	cfg       *HTTPClientConfig
	netCfg    *config.NetSvcConfig
	client    *http.Client
	token     dto.TokenInfo
	tokenMu   sync.RWMutex
}

func NewHTTPClient(ref string, netCfg *config.NetSvcConfig, cfg *HTTPClientConfig) *HTTPClient {
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        50,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableKeepAlives:   false,
			Proxy:               http.ProxyFromEnvironment,
		}
	}
	return &HTTPClient{
		cfg:    cfg,
		netCfg: netCfg,
		NetClient: dto.NetClient{
			Name:        "HTTP Client",
			Ref:         ref,
			ClientType:  NetClientHTTPRef,
			Description: "Perform HTTP requests to given URLs including auth support",
		},
		client: &http.Client{
			Timeout:   netCfg.RequestTimeout,
			Jar:       cfg.CookieJar,
			Transport: transport,
		},
	}
}

func (c *HTTPClient) Ref() string {
	return c.NetClient.Ref
}
func (c *HTTPClient) Type() dto.NetClientType {
	return NetClientHTTPRef
}

// Doer exposes the underlying client so login traffic shares its jar and transport.
func (c *HTTPClient) Doer() *http.Client {
	return c.client
}

// -----------------------------------------------------------------------------
// REQUEST EXECUTION
// -----------------------------------------------------------------------------

// ProcessRequest executes one authenticated, middleware-wrapped call.
// Automatically handles token lifetimes, OAuth2 renewal, and cookie sessions.
//
// If multiple authentication mechanisms are configured, OAuth2 takes precedence.
// AuthProvider is used as a fallback.
//
// A 401 is returned as a *dto.StatusError alongside the response. When an
// Interceptor is configured each failure is offered to it and the request is
// re-sent for as long as it answers true.
func (c *HTTPClient) ProcessRequest(ctx context.Context, inCfg *dto.RequestConfig) (dto.Response, error) {
	cfg, castOk := inCfg.ReqConfig.(*HTTPRequestConfig)
	if !castOk {
		return dto.Response{}, errors.New("problem casting to httprequestconfig")
	}

	reqAny, err := cfg.NewRequest(ctx)
	if err != nil {
		return dto.Response{}, fmt.Errorf("build request: %w", err)
	}
	reqCfg, ok := reqAny.(*HTTPRequest)
	if !ok {
		return dto.Response{}, errors.New("problem casting built request to httprequest")
	}

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, reqCfg); err != nil {
			return dto.Response{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := c.ensureToken(ctx); err != nil {
		return dto.Response{}, fmt.Errorf("ensure token: %w", err)
	}

	// Attach credentials (Authorization or Cookies)
	c.tokenMu.RLock()
	c.attachAuth(reqCfg)
	c.tokenMu.RUnlock()

	if err := reqCfg.FinalizeBody(); err != nil {
		return dto.Response{}, err
	}

	for attempt := 0; ; attempt++ {
		httpReq, err := c.newHTTPRequest(ctx, reqCfg)
		if err != nil {
			return dto.Response{}, err
		}
		if c.cfg.Interceptor != nil {
			httpReq = c.cfg.Interceptor.Adapt(httpReq)
		}

		response, err := c.send(httpReq, attempt)
		if err == nil {
			return response, nil
		}
		if c.cfg.Interceptor == nil {
			return response, err
		}

		retry, waitErr := c.awaitRetryDecision(ctx, httpReq, attempt, err)
		if waitErr != nil {
			return response, fmt.Errorf("await retry decision: %w", errors.Join(err, waitErr))
		}
		if !retry {
			return response, err
		}
	}
}

// newHTTPRequest builds a fresh wire request so every attempt carries its own body reader.
func (c *HTTPClient) newHTTPRequest(ctx context.Context, reqCfg *HTTPRequest) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		reqCfg.Method,
		reqCfg.URL,
		bytes.NewReader(reqCfg.BodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header = utils.MapToHeader(c.netCfg.ExtraHeaders)
	if c.netCfg.UserAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.netCfg.UserAgent)
	}
	for k, v := range reqCfg.Headers {
		if k == "Authorization" && httpReq.Header.Get("Authorization") != "" {
			continue
		}
		httpReq.Header.Set(k, v)
	}

	if reqCfg.ContentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", reqCfg.ContentType)
	}
	return httpReq, nil
}

func (c *HTTPClient) send(httpReq *http.Request, attempt int) (dto.Response, error) {
	// httpResp may be non-nil with error
	httpResp, reqErr := c.client.Do(httpReq)
	if httpResp != nil {
		defer func() {
			_, _ = io.Copy(io.Discard, httpResp.Body) // drain fully for connection reuse
			_ = httpResp.Body.Close()
		}()
	}
	if reqErr != nil {
		metrics.RequestsTotal.WithLabelValues(c.Ref(), "error").Inc()
		c.publish(httpReq, 0, attempt, reqErr.Error())
		return dto.Response{}, fmt.Errorf("perform request: %w", reqErr)
	}

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read body: %w", err)
	}

	response := dto.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       bodyBytes,
	}
	metrics.RequestsTotal.WithLabelValues(c.Ref(), metrics.StatusClass(response.StatusCode)).Inc()
	c.publish(httpReq, response.StatusCode, attempt, http.StatusText(response.StatusCode))

	// The jar already stored them when present.
	if c.cfg.CookieJar == nil {
		c.rememberCookies(response.Headers)
	}

	// Guard unauthorized error type explicitly
	if response.StatusCode == http.StatusUnauthorized {
		return response, fmt.Errorf("unauthorized: %w", &dto.StatusError{
			StatusCode: response.StatusCode,
			Method:     httpReq.Method,
			URL:        httpReq.URL.String(),
		})
	}

	return response, nil
}

// awaitRetryDecision blocks until the interceptor answers or ctx ends.
// The channel is buffered so a late completion never blocks.
func (c *HTTPClient) awaitRetryDecision(ctx context.Context, httpReq *http.Request, attempt int, err error) (bool, error) {
	decision := make(chan bool, 1)
	c.cfg.Interceptor.Retry(httpReq, attempt, err, func(shouldRetry bool) {
		decision <- shouldRetry
	})

	select {
	case retry := <-decision:
		return retry, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (c *HTTPClient) publish(httpReq *http.Request, status, attempt int, msg string) {
	if c.netCfg == nil || c.netCfg.Relay() == nil {
		return
	}
	c.netCfg.Relay().Debug(relays.RlyNetRequest{
		Method:     httpReq.Method,
		URL:        httpReq.URL.Redacted(),
		StatusCode: status,
		Attempt:    attempt,
		Msg:        msg,
	})
}
