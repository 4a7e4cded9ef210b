package noncenet

import (
	"sync"

	"github.com/joy-dx/lockablemap"
	"github.com/joy-dx/noncenet/auth/cookienonce"
	"github.com/joy-dx/noncenet/config"
	"github.com/joy-dx/noncenet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// NetSvc routes requests to registered clients and keeps WordPress site
// sessions alive through their cookie nonce re-authenticators.
type NetSvc struct {
	cfg            *config.NetSvcConfig
	relay          relayDTO.RelayInterface
	muClients      sync.RWMutex
	clients        map[string]dto.NetClientInterface
	sites          map[string]*cookienonce.Authenticator
	sessionState   *lockablemap.LockableMap[string, dto.SessionNotification]
	muListeners    sync.Mutex
	listenersByRef map[string][]chan dto.SessionNotification
}

func (s *NetSvc) RegisterClient(ref string, client dto.NetClientInterface) {
	s.muClients.Lock()
	defer s.muClients.Unlock()
	s.clients[ref] = client
}

func (s *NetSvc) client(ref string) (dto.NetClientInterface, bool) {
	s.muClients.RLock()
	defer s.muClients.RUnlock()
	c, ok := s.clients[ref]
	return c, ok
}

// Authenticator returns the re-authenticator registered for a site.
func (s *NetSvc) Authenticator(ref string) (*cookienonce.Authenticator, bool) {
	s.muClients.RLock()
	defer s.muClients.RUnlock()
	a, ok := s.sites[ref]
	return a, ok
}

// SessionListener returns a channel of session updates for a site ref
func (s *NetSvc) SessionListener(ref string) (<-chan dto.SessionNotification, func()) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()

	ch := make(chan dto.SessionNotification, 10)
	s.listenersByRef[ref] = append(s.listenersByRef[ref], ch)

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.muListeners.Lock()
			defer s.muListeners.Unlock()

			chans, ok := s.listenersByRef[ref]
			if !ok {
				// already closed by SessionListenerClose
				return
			}
			out := chans[:0]
			found := false
			for _, c := range chans {
				if c != ch {
					out = append(out, c)
				} else {
					found = true
				}
			}
			if len(out) == 0 {
				delete(s.listenersByRef, ref)
			} else {
				s.listenersByRef[ref] = out
			}
			if found {
				close(ch)
			}
		})
	}

	return ch, unsub
}

// SessionListenerClose closes all channels for a given site ref manually
func (s *NetSvc) SessionListenerClose(ref string) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()
	if chans, ok := s.listenersByRef[ref]; ok {
		for _, c := range chans {
			close(c)
		}
		delete(s.listenersByRef, ref)
	}
}
