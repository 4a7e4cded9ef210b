package cookienonce

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/utils"
)

// fakeSite mimics the two WordPress endpoints used by the login sequence.
type fakeSite struct {
	mu sync.Mutex

	loginStatus int
	loginPage   string
	nonceStatus int
	nonceBody   string
	// loginGate, when set, holds every login POST until closed
	loginGate chan struct{}

	loginCalls      int
	nonceCalls      int
	lastForm        url.Values
	lastContentType string
}

func (f *fakeSite) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-login.php", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		gate := f.loginGate
		f.mu.Unlock()
		if gate != nil {
			<-gate
		}

		_ = r.ParseForm()
		f.mu.Lock()
		f.loginCalls++
		f.lastForm = r.PostForm
		f.lastContentType = r.Header.Get("Content-Type")
		status, page := f.loginStatus, f.loginPage
		f.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
		}
		if status == http.StatusOK && page == "" {
			http.SetCookie(w, &http.Cookie{Name: "wordpress_logged_in", Value: "session", Path: "/"})
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/wp-admin/admin-ajax.php", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.nonceCalls++
		status, body := f.nonceStatus, f.nonceBody
		f.mu.Unlock()

		if r.URL.Query().Get("action") != "rest-nonce" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// admin-ajax answers "0" with 400 to anonymous callers
		if _, err := r.Cookie("wordpress_logged_in"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("0"))
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	return mux
}

func (f *fakeSite) calls() (login, nonce int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.nonceCalls
}

func newSiteServer(t *testing.T, site *fakeSite) (*httptest.Server, dto.Credentials, HTTPDoer) {
	t.Helper()

	srv := httptest.NewServer(site.handler())
	t.Cleanup(srv.Close)

	creds := dto.CredentialsForSite(srv.URL, "admin", "p@ss+word")
	doer := &http.Client{Jar: utils.NewCookieJar(), Transport: srv.Client().Transport}
	return srv, creds, doer
}

// funcDoer lets tests fail the transport directly.
type funcDoer func(req *http.Request) (*http.Response, error)

func (f funcDoer) Do(req *http.Request) (*http.Response, error) { return f(req) }

func unauthorizedErr(rawURL string) error {
	return fmt.Errorf("perform request: %w", &dto.StatusError{StatusCode: http.StatusUnauthorized, URL: rawURL})
}

// notConnectedErr is what net/http returns when the device has no route out.
func notConnectedErr() error {
	return &url.Error{
		Op:  "Post",
		URL: "https://shop.test/wp-login.php",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)},
	}
}

func mustRequest(t *testing.T, method, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, rawURL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return req
}

// retryResult collects completions in the order they were invoked.
type retryResult struct {
	mu    sync.Mutex
	order []int
	vals  []bool
	done  chan struct{}
	want  int
}

func newRetryResult(want int) *retryResult {
	return &retryResult{done: make(chan struct{}), want: want}
}

func (r *retryResult) completion(idx int) func(bool) {
	return func(shouldRetry bool) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, idx)
		r.vals = append(r.vals, shouldRetry)
		if len(r.order) == r.want {
			close(r.done)
		}
	}
}

func (r *retryResult) wait(t *testing.T) ([]int, []bool) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for %d completions", r.want)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.order...), append([]bool(nil), r.vals...)
}
