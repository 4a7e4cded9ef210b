package relays

import (
	"log/slog"

	"github.com/joy-dx/noncenet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	RlyNetChannel relayDTO.EventChannel = "net"

	RlyNetLogRef     relayDTO.EventRef = "net.log"
	RlyNetRequestRef relayDTO.EventRef = "net.request"
	RlyNetSessionRef relayDTO.EventRef = "net.session"
)

// RlyNetLog is a free-form service message.
type RlyNetLog struct {
	Msg string
}

func (e RlyNetLog) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetLog) RelayType() relayDTO.EventRef        { return RlyNetLogRef }
func (e RlyNetLog) Message() string                     { return e.Msg }
func (e RlyNetLog) ToSlog() []slog.Attr                 { return nil }

// RlyNetRequest describes one HTTP exchange attempt.
type RlyNetRequest struct {
	Method     string
	URL        string
	StatusCode int
	Attempt    int
	Msg        string
}

func (e RlyNetRequest) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetRequest) RelayType() relayDTO.EventRef        { return RlyNetRequestRef }
func (e RlyNetRequest) Message() string                     { return e.Msg }
func (e RlyNetRequest) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("method", e.Method),
		slog.String("url", e.URL),
		slog.Int("attempt", e.Attempt),
	}
	if e.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status_code", e.StatusCode))
	}
	return attrs
}

// RlyNetSession reports re-authentication progress for a site.
type RlyNetSession struct {
	Ref        string
	SequenceID string
	Status     dto.SessionStatus
	Waiters    int
	Err        error
	Msg        string
}

func (e RlyNetSession) RelayChannel() relayDTO.EventChannel { return RlyNetChannel }
func (e RlyNetSession) RelayType() relayDTO.EventRef        { return RlyNetSessionRef }
func (e RlyNetSession) Message() string                     { return e.Msg }
func (e RlyNetSession) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("ref", e.Ref),
		slog.String("status", string(e.Status)),
	}
	if e.SequenceID != "" {
		attrs = append(attrs, slog.String("sequence_id", e.SequenceID))
	}
	if e.Waiters > 0 {
		attrs = append(attrs, slog.Int("waiters", e.Waiters))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}
