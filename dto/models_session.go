package dto

type SessionStatus string

const (
	SESSION_IDLE           SessionStatus = "idle"
	SESSION_AUTHENTICATING SessionStatus = "authenticating"
	SESSION_AUTHENTICATED  SessionStatus = "authenticated"
	SESSION_FAILED         SessionStatus = "failed"
)

// IsTerminal reports whether the status concludes a login sequence.
func (s SessionStatus) IsTerminal() bool {
	return s == SESSION_AUTHENTICATED || s == SESSION_FAILED
}

type SessionNotification struct {
	Ref     string        `json:"ref" yaml:"ref"`
	Status  SessionStatus `json:"status" yaml:"status"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
	// SequenceID correlates the notifications of one login sequence
	SequenceID string `json:"sequence_id,omitempty" yaml:"sequence_id,omitempty"`
	HasNonce   bool   `json:"has_nonce" yaml:"has_nonce"`
	CanRetry   bool   `json:"can_retry" yaml:"can_retry"`
	// Waiters number of queued requests released by this notification
	Waiters int `json:"waiters,omitempty" yaml:"waiters,omitempty"`
}
