package cookienonce

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/metrics"
	"github.com/joy-dx/noncenet/relays"
	"github.com/joy-dx/noncenet/utils"
	relayDTO "github.com/joy-dx/relay/dto"
)

// NonceHeader carries the REST nonce on authenticated requests.
const NonceHeader = "X-WP-Nonce"

// Retry decisions recorded in metrics.RetryDecisionsTotal.
const (
	decisionQueued          = "queued"
	decisionRetriesDisabled = "retries_disabled"
	decisionAlreadyRetried  = "already_retried"
	decisionLoginRequest    = "login_request"
	decisionNotUnauthorized = "not_unauthorized"
)

// Authenticator recovers from WordPress cookie session expiry. It decorates
// outgoing requests with the cached REST nonce and, when a request fails with
// 401, logs in again (credential POST then nonce GET) before letting every
// request that queued behind the login retry once.
//
// At most one login sequence runs at a time. All requests that queued while
// it ran receive its outcome, in the order they queued.
type Authenticator struct {
	ref         string
	creds       dto.Credentials
	loginURL    *url.URL
	doer        HTTPDoer
	relay       relayDTO.RelayInterface
	observer    func(dto.SessionNotification)
	retainRetry func(err error) bool

	mu       sync.Mutex
	state    authState
	nonce    string
	canRetry bool
}

func New(creds dto.Credentials, opts ...Option) *Authenticator {
	a := &Authenticator{
		ref:         creds.Username,
		creds:       creds,
		doer:        &http.Client{Jar: utils.NewCookieJar()},
		retainRetry: IsNotConnected,
		state:       idle{},
		canRetry:    true,
	}
	// An unparsable login URL cannot match any request, and the login itself will fail.
	if u, err := url.Parse(creds.LoginURL); err == nil {
		a.loginURL = u
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Authenticator) Ref() string {
	return a.ref
}

// Adapt returns req carrying the cached nonce, or req itself when none is cached.
func (a *Authenticator) Adapt(req *http.Request) *http.Request {
	nonce := a.Nonce()
	if nonce == "" || req == nil {
		return req
	}
	out := req.Clone(req.Context())
	out.Header.Set(NonceHeader, nonce)
	return out
}

// Retry decides whether a failed request should be sent again. completion is
// called exactly once: immediately with false when the failure is not an
// expired session, otherwise with the outcome of the login sequence.
func (a *Authenticator) Retry(req *http.Request, retryCount int, err error, completion func(shouldRetry bool)) {
	if decision := a.precheck(req, retryCount, err); decision != "" {
		metrics.RetryDecisionsTotal.WithLabelValues(decision).Inc()
		completion(false)
		return
	}

	a.mu.Lock()
	if !a.canRetry {
		a.mu.Unlock()
		metrics.RetryDecisionsTotal.WithLabelValues(decisionRetriesDisabled).Inc()
		completion(false)
		return
	}
	seq, started := a.join(func(loginErr error) { completion(loginErr == nil) })
	a.mu.Unlock()
	metrics.RetryDecisionsTotal.WithLabelValues(decisionQueued).Inc()

	if started {
		ctx := context.Background()
		if req != nil {
			ctx = context.WithoutCancel(req.Context())
		}
		go a.run(ctx, seq)
	}
}

// Authenticate logs in, or joins the login already in flight, and returns its
// outcome. ctx only bounds the wait; the sequence itself carries on for any
// other queued requests. A successful login re-enables retries.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	done := make(chan error, 1)

	a.mu.Lock()
	seq, started := a.join(func(err error) { done <- err })
	a.mu.Unlock()

	if started {
		go a.run(context.WithoutCancel(ctx), seq)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Authenticator) Nonce() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nonce
}

func (a *Authenticator) CanRetry() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canRetry
}

func (a *Authenticator) Authenticating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, busy := a.state.(*authenticating)
	return busy
}

// precheck returns the reason to decline without touching state, or "".
func (a *Authenticator) precheck(req *http.Request, retryCount int, err error) string {
	switch {
	case retryCount >= 1:
		return decisionAlreadyRetried
	case a.isLoginRequest(req):
		return decisionLoginRequest
	case !dto.IsUnauthorized(err):
		return decisionNotUnauthorized
	}
	return ""
}

func (a *Authenticator) isLoginRequest(req *http.Request) bool {
	if a.loginURL == nil || req == nil || req.URL == nil {
		return false
	}
	return strings.EqualFold(req.URL.Scheme, a.loginURL.Scheme) &&
		strings.EqualFold(req.URL.Host, a.loginURL.Host) &&
		req.URL.Path == a.loginURL.Path
}

// join queues w. It must be called with mu held.
func (a *Authenticator) join(w waiter) (*authenticating, bool) {
	if seq, ok := a.state.(*authenticating); ok {
		seq.waiters = append(seq.waiters, w)
		return seq, false
	}
	seq := &authenticating{sequenceID: uuid.NewString(), waiters: []waiter{w}}
	a.state = seq
	return seq, true
}

func (a *Authenticator) run(ctx context.Context, seq *authenticating) {
	a.notify(dto.SessionNotification{
		Status:     dto.SESSION_AUTHENTICATING,
		SequenceID: seq.sequenceID,
		Message:    "session expired, logging in",
	}, nil)

	timer := metrics.NewTimer()
	nonce, err := a.login(ctx)
	timer.ObserveDuration(metrics.LoginDuration)
	err = categorise(err)

	a.mu.Lock()
	if err == nil {
		a.nonce = nonce
		a.canRetry = true
	} else {
		a.canRetry = a.retainRetry(err)
	}
	waiters := seq.waiters
	a.state = idle{}
	a.mu.Unlock()

	metrics.DrainedWaiters.Observe(float64(len(waiters)))
	switch {
	case err == nil:
		metrics.LoginSequencesTotal.WithLabelValues("success").Inc()
		a.notify(dto.SessionNotification{
			Status:     dto.SESSION_AUTHENTICATED,
			SequenceID: seq.sequenceID,
			Waiters:    len(waiters),
			Message:    "logged in, nonce refreshed",
		}, nil)
	default:
		outcome := "failure"
		if IsNotConnected(err) {
			outcome = "offline"
		}
		metrics.LoginSequencesTotal.WithLabelValues(outcome).Inc()
		a.notify(dto.SessionNotification{
			Status:     dto.SESSION_FAILED,
			SequenceID: seq.sequenceID,
			Waiters:    len(waiters),
			Message:    err.Error(),
		}, err)
	}

	for _, w := range waiters {
		w(err)
	}
}

func (a *Authenticator) notify(n dto.SessionNotification, err error) {
	a.mu.Lock()
	n.Ref = a.ref
	n.HasNonce = a.nonce != ""
	n.CanRetry = a.canRetry
	a.mu.Unlock()

	if a.relay != nil {
		evt := relays.RlyNetSession{
			Ref:        n.Ref,
			SequenceID: n.SequenceID,
			Status:     n.Status,
			Waiters:    n.Waiters,
			Err:        err,
			Msg:        n.Message,
		}
		if err != nil {
			a.relay.Warn(evt)
		} else {
			a.relay.Debug(evt)
		}
	}
	if a.observer != nil {
		a.observer(n)
	}
}
