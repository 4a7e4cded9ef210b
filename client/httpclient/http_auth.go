package httpclient

import (
	"net/http"
	"strings"
)

// authScheme canonicalises the scheme of an Authorization header.
// Unknown schemes pass through untouched and an empty one means Bearer.
func authScheme(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "bearer":
		return "Bearer"
	case "basic":
		return "Basic"
	}
	return t
}

// attachAuth adds the client's credentials to the per-call request. Callers hold tokenMu.
// An access token wins over captured cookies, and a configured jar sends its own cookies.
func (c *HTTPClient) attachAuth(req *HTTPRequest) {
	switch {
	case c.token.AccessToken != "":
		req.SetHeader("Authorization", authScheme(c.token.TokenType)+" "+c.token.AccessToken)
	case c.cfg.CookieJar == nil && len(c.token.Cookies) > 0:
		req.SetHeader("Cookie", cookieHeader(c.token.Cookies))
	}
}

func cookieHeader(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		if ck != nil {
			pairs = append(pairs, ck.Name+"="+ck.Value)
		}
	}
	return strings.Join(pairs, "; ")
}
