package utils

import (
	"net/http"
	"net/url"
	"testing"
)

func TestNewCookieJar_Golden(t *testing.T) {
	t.Parallel()

	jar := NewCookieJar()
	site, _ := url.Parse("https://shop.example.com/wp-login.php")
	jar.SetCookies(site, []*http.Cookie{{Name: "wordpress_logged_in", Value: "v", Path: "/"}})

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "same host", url: "https://shop.example.com/wp-json/wc/v3/orders", want: 1},
		{name: "other host", url: "https://other.example.org/", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, _ := url.Parse(tt.url)
			if got := len(jar.Cookies(u)); got != tt.want {
				t.Fatalf("cookies=%d want %d", got, tt.want)
			}
		})
	}
}
