package utils

import "errors"

func IsTemporaryErr(err error) bool {
	// A completed exchange (see dto.StatusError) is only worth repeating when the server failed.
	var statusErr interface{ HTTPStatus() int }
	if errors.As(err, &statusErr) {
		return statusErr.HTTPStatus() >= 500
	}
	var netErr interface{ Temporary() bool }
	if errors.As(err, &netErr) {
		return netErr.Temporary()
	}
	// consider all network-level issues as transient
	return true
}
