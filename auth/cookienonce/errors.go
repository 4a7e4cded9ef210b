package cookienonce

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

var (
	ErrInvalidNonceURL = errors.New("cookienonce: invalid nonce request url")
	ErrMissingNonce    = errors.New("cookienonce: nonce missing from response")
	// ErrLoginRejected is wrapped by a LoginError when the login page reported a failure.
	ErrLoginRejected = errors.New("cookienonce: login rejected by site")
	// ErrNotConnected lets transports report lost connectivity explicitly.
	ErrNotConnected = errors.New("cookienonce: not connected to the internet")
)

// LoginError means the credential POST failed.
type LoginError struct {
	StatusCode int
	// Message is the site's own explanation, taken from the login page
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	switch {
	case e.Message != "":
		return "cookienonce: login failed: " + e.Message
	case e.StatusCode == http.StatusNotFound:
		return "cookienonce: login page is not accessible"
	case e.StatusCode != 0:
		return fmt.Sprintf("cookienonce: login failed with status code %d", e.StatusCode)
	default:
		return fmt.Sprintf("cookienonce: login request failed: %v", e.Err)
	}
}

func (e *LoginError) Unwrap() error { return e.Err }

// NonceRequestError means the nonce GET failed after a successful login.
type NonceRequestError struct {
	StatusCode int
	Err        error
}

func (e *NonceRequestError) Error() string {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return "cookienonce: admin page is not accessible"
	case e.StatusCode != 0:
		return fmt.Sprintf("cookienonce: nonce request failed with status code %d", e.StatusCode)
	default:
		return fmt.Sprintf("cookienonce: nonce request failed: %v", e.Err)
	}
}

func (e *NonceRequestError) Unwrap() error { return e.Err }

// UnknownError wraps anything the login sequence could not categorise.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string { return fmt.Sprintf("cookienonce: unknown error: %v", e.Err) }
func (e *UnknownError) Unwrap() error { return e.Err }

// categorise leaves taxonomy errors untouched and wraps everything else.
func categorise(err error) error {
	if err == nil {
		return nil
	}
	var (
		loginErr *LoginError
		nonceErr *NonceRequestError
		unknown  *UnknownError
	)
	switch {
	case errors.Is(err, ErrInvalidNonceURL),
		errors.Is(err, ErrMissingNonce),
		errors.As(err, &loginErr),
		errors.As(err, &nonceErr),
		errors.As(err, &unknown):
		return err
	}
	return &UnknownError{Err: err}
}

// IsNotConnected reports whether err was caused by the device having no network route.
// It is the default policy deciding that a failed login keeps retries enabled.
func IsNotConnected(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConnected) {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ENETUNREACH, syscall.ENETDOWN, syscall.EHOSTUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	// offline devices usually fail at name lookup before any route is tried
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	return false
}
