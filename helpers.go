package noncenet

import (
	"github.com/joy-dx/noncenet/dto"
)

// publishSessionUpdate records a site's latest session state and fans it out to listeners.
// Logging is left to the authenticator, which holds the error.
func (s *NetSvc) publishSessionUpdate(state dto.SessionNotification) {
	s.sessionState.Set(state.Ref, state)

	s.muListeners.Lock()
	listeners := append([]chan dto.SessionNotification(nil), s.listenersByRef[state.Ref]...)
	s.muListeners.Unlock()

	for _, ch := range listeners {
		if state.Status.IsTerminal() {
			// Terminal events must be delivered.
			// Avoid deadlock: do NOT hold muListeners while sending.
			select {
			case ch <- state:
			default:
				// Buffer full: fall back to blocking send in a goroutine.
				go func(c chan dto.SessionNotification, n dto.SessionNotification) {
					// unsubscribe may have closed the channel
					defer func() { _ = recover() }()
					c <- n
				}(ch, state)
			}
		} else {
			// Progress updates can be dropped
			select {
			case ch <- state:
			default:
			}
		}
	}
}
