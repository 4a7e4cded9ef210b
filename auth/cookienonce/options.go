package cookienonce

import (
	"net/http"

	"github.com/joy-dx/noncenet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// HTTPDoer performs the login and nonce requests. It must share its cookie
// jar with the client whose requests are being re-authenticated.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(a *Authenticator)

func WithHTTPDoer(doer HTTPDoer) Option {
	return func(a *Authenticator) {
		if doer != nil {
			a.doer = doer
		}
	}
}

func WithRelay(relay relayDTO.RelayInterface) Option {
	return func(a *Authenticator) {
		a.relay = relay
	}
}

// WithObserver receives a notification whenever a login sequence starts or concludes.
func WithObserver(fn func(dto.SessionNotification)) Option {
	return func(a *Authenticator) {
		a.observer = fn
	}
}

// WithRetainRetry replaces the policy deciding which login failures keep
// retries enabled. The default is IsNotConnected.
func WithRetainRetry(fn func(err error) bool) Option {
	return func(a *Authenticator) {
		if fn != nil {
			a.retainRetry = fn
		}
	}
}

// WithRef names the site in notifications and log events.
func WithRef(ref string) Option {
	return func(a *Authenticator) {
		a.ref = ref
	}
}
