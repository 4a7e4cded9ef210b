package utils

import (
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// NewCookieJar returns an in-memory jar scoped with the public suffix list so
// a site's session cookies are never offered to sibling domains.
func NewCookieJar() http.CookieJar {
	// cookiejar.New only fails on a nil PublicSuffixList lookup error, which
	// the publicsuffix package never returns.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}
