package noncenet

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/joy-dx/noncenet/auth/cookienonce"
	"github.com/joy-dx/noncenet/config"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/relays"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wpSite serves a WooCommerce REST route guarded by a cookie session and REST nonce.
type wpSite struct {
	mu     sync.Mutex
	logins int
	nonce  string
	pass   string
	// loginStarted and loginGate hold a login open when set
	loginStarted chan struct{}
	loginGate    chan struct{}
	// lastAuth is the Authorization header of the latest REST call
	lastAuth string
}

func (wp *wpSite) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-login.php", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		wp.mu.Lock()
		wp.logins++
		wp.mu.Unlock()
		if wp.loginGate != nil {
			close(wp.loginStarted)
			<-wp.loginGate
		}
		if r.PostForm.Get("pwd") != wp.pass {
			_, _ = w.Write([]byte(`<div id="login_error"><strong>Error:</strong> Incorrect password.</div>`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "wordpress_logged_in_x", Value: "1", Path: "/"})
	})
	mux.HandleFunc("/wp-admin/admin-ajax.php", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("wordpress_logged_in_x"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(wp.nonce))
	})
	mux.HandleFunc("/wp-json/wc/v3/orders", func(w http.ResponseWriter, r *http.Request) {
		wp.mu.Lock()
		wp.lastAuth = r.Header.Get("Authorization")
		wp.mu.Unlock()
		if r.Header.Get(cookienonce.NonceHeader) != wp.nonce {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNetSvc_RegisterSite_Errors_Golden(t *testing.T) {
	t.Parallel()

	valid := dto.CredentialsForSite("https://shop.example.com", "admin", "pw")
	tests := []struct {
		name   string
		ref    string
		creds  dto.Credentials
		wantIs error
	}{
		{name: "empty ref", ref: "", creds: valid, wantIs: ErrEmptySiteRef},
		{name: "default ref reserved", ref: dto.NET_DEFAULT_CLIENT_REF, creds: valid, wantIs: ErrReservedSiteRef},
		{name: "empty username", ref: "shop", creds: dto.CredentialsForSite("https://shop.example.com", "", "pw"), wantIs: dto.ErrEmptyUsername},
		{name: "relative site", ref: "shop", creds: dto.CredentialsForSite("/shop", "admin", "pw")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSvc(t)

			auth, err := s.RegisterSite(tt.ref, tt.creds)
			require.Error(t, err)
			assert.Nil(t, auth)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Empty(t, s.State().Clients)
		})
	}
}

func TestNetSvc_SiteGet_RecoversExpiredSession(t *testing.T) {
	t.Parallel()

	wp := &wpSite{nonce: "abc123", pass: "pw"}
	srv := wp.server(t)

	s := newTestSvc(t)
	auth, err := s.RegisterSite("shop", dto.CredentialsForSite(srv.URL, "admin", "pw"))
	require.NoError(t, err)

	updates, unsub := s.SessionListener("shop")
	defer unsub()

	resp, err := s.SiteGet(context.Background(), "shop", srv.URL+"/wp-json/wc/v3/orders", false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":1}]`, string(resp.Body))
	assert.Equal(t, "abc123", auth.Nonce())

	assert.Equal(t, dto.SESSION_AUTHENTICATING, recvSession(t, updates).Status)
	done := recvSession(t, updates)
	assert.Equal(t, dto.SESSION_AUTHENTICATED, done.Status)
	assert.True(t, done.HasNonce)
	assert.Equal(t, 1, done.Waiters)

	state := s.State().SessionsStatus["shop"]
	assert.Equal(t, dto.SESSION_AUTHENTICATED, state.Status)

	relay := s.relay.(*fakeRelay)
	assert.Len(t, relay.ofType(relays.RlyNetSessionRef), 2)

	// Nonce is now attached up front.
	_, err = s.SiteGet(context.Background(), "shop", srv.URL+"/wp-json/wc/v3/orders", true)
	require.NoError(t, err)
	wp.mu.Lock()
	assert.Equal(t, 1, wp.logins)
	wp.mu.Unlock()
}

func TestNetSvc_SiteGet_RejectedLogin(t *testing.T) {
	t.Parallel()

	wp := &wpSite{nonce: "abc123", pass: "right"}
	srv := wp.server(t)

	s := newTestSvc(t)
	auth, err := s.RegisterSite("shop", dto.CredentialsForSite(srv.URL, "admin", "wrong"))
	require.NoError(t, err)

	updates, unsub := s.SessionListener("shop")
	defer unsub()

	resp, err := s.SiteGet(context.Background(), "shop", srv.URL+"/wp-json/wc/v3/orders", true)
	require.Error(t, err)
	assert.True(t, dto.IsUnauthorized(err))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, auth.CanRetry())

	assert.Equal(t, dto.SESSION_AUTHENTICATING, recvSession(t, updates).Status)
	failed := recvSession(t, updates)
	assert.Equal(t, dto.SESSION_FAILED, failed.Status)
	assert.False(t, failed.CanRetry)
	assert.Contains(t, failed.Message, "Incorrect password.")

	err = s.Login(context.Background(), "shop")
	var loginErr *cookienonce.LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.ErrorIs(t, err, cookienonce.ErrLoginRejected)
}

func TestNetSvc_Login_UnknownSite(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	err := s.Login(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrUnknownSite))

	_, err = s.SiteGet(context.Background(), "missing", "https://example.com", false)
	assert.ErrorIs(t, err, ErrUnknownSite)
}

func TestNetSvc_Hydrate_SiteHeaderAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		site     config.SiteConfig
		wantAuth string
	}{
		{
			name:     "application password as basic auth",
			site:     config.SiteConfig{Username: "admin", Password: "pw", ApplicationPassword: "abcd EFGH 1234"},
			wantAuth: "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:abcd EFGH 1234")),
		},
		{
			name:     "wordpress.com token as bearer",
			site:     config.SiteConfig{Username: "admin", Password: "pw", WPComToken: "wpcom-secret"},
			wantAuth: "Bearer wpcom-secret",
		},
		{
			name: "cookie session only",
			site: config.SiteConfig{Username: "admin", Password: "pw"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wp := &wpSite{nonce: "abc123", pass: "pw"}
			srv := wp.server(t)

			site := tt.site
			site.Ref = "shop"
			site.SiteURL = srv.URL
			cfg := config.DefaultNetSvcConfig()
			cfg.WithRelay(&fakeRelay{}).WithSite(site)
			s := newNetSvc(&cfg)
			require.NoError(t, s.Hydrate(context.Background()))

			// header auth and the cookie nonce work side by side
			resp, err := s.SiteGet(context.Background(), "shop", srv.URL+"/wp-json/wc/v3/orders", false)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			wp.mu.Lock()
			defer wp.mu.Unlock()
			assert.Equal(t, tt.wantAuth, wp.lastAuth)
			assert.Equal(t, 1, wp.logins)
		})
	}
}

func TestNetSvc_RegisterSiteConfig_ConflictingAuth(t *testing.T) {
	t.Parallel()

	s := newTestSvc(t)
	_, err := s.RegisterSiteConfig(config.SiteConfig{
		Ref:                 "shop",
		SiteURL:             "https://shop.example.com",
		Username:            "admin",
		ApplicationPassword: "abcd",
		WPComToken:          "tok",
	})
	require.ErrorIs(t, err, config.ErrConflictingSiteAuth)
	_, ok := s.Authenticator("shop")
	assert.False(t, ok)
}

func TestNetSvc_RegisterSite_ReplacedAuthenticatorStaysSilent(t *testing.T) {
	t.Parallel()

	old := &wpSite{nonce: "old", pass: "pw", loginStarted: make(chan struct{}), loginGate: make(chan struct{})}
	oldSrv := old.server(t)
	replacement := &wpSite{nonce: "new", pass: "pw"}
	newSrv := replacement.server(t)

	s := newTestSvc(t)
	oldAuth, err := s.RegisterSite("shop", dto.CredentialsForSite(oldSrv.URL, "admin", "pw"))
	require.NoError(t, err)

	loginDone := make(chan error, 1)
	go func() { loginDone <- oldAuth.Authenticate(context.Background()) }()
	<-old.loginStarted

	newAuth, err := s.RegisterSite("shop", dto.CredentialsForSite(newSrv.URL, "admin", "pw"))
	require.NoError(t, err)
	updates, unsub := s.SessionListener("shop")
	defer unsub()

	close(old.loginGate)
	require.NoError(t, <-loginDone)
	assert.Equal(t, "old", oldAuth.Nonce())

	current, _ := s.Authenticator("shop")
	assert.Same(t, newAuth, current)
	assert.Equal(t, dto.SESSION_IDLE, s.State().SessionsStatus["shop"].Status)
	select {
	case n := <-updates:
		t.Fatalf("unexpected update from replaced authenticator: %+v", n)
	case <-time.After(50 * time.Millisecond):
	}
}
