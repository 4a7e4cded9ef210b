package dto

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a completed HTTP exchange with an unacceptable status code.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
}

func (e *StatusError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("unexpected status %d: %s %s", e.StatusCode, e.Method, e.URL)
}

func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// IsUnauthorized reports whether err carries an HTTP 401 anywhere in its chain.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}

// StatusCodeOf returns the status code carried by err, or 0.
func StatusCodeOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
