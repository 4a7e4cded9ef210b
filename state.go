package noncenet

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/joy-dx/noncenet/client/httpclient"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/relays"
)

func (s *NetSvc) State() *dto.NetState {
	s.muClients.RLock()
	clients := make([]string, 0, len(s.clients))
	for ref := range s.clients {
		clients = append(clients, ref)
	}
	s.muClients.RUnlock()
	sort.Strings(clients)

	return &dto.NetState{
		ExtraHeaders:   s.cfg.ExtraHeaders,
		RequestTimeout: s.cfg.RequestTimeout,
		UserAgent:      s.cfg.UserAgent,
		Clients:        clients,
		SessionsStatus: s.sessionState.GetAll(),
	}
}

// Hydrate registers the default client and one authenticated client per configured site.
func (s *NetSvc) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no net config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}

	defaultClientCfg := httpclient.DefaultHTTPClientConfig()
	defaultClientCfg.WithMiddleware(httpclient.RelayMiddleware(s.relay))
	defaultClient := httpclient.NewHTTPClient(dto.NET_DEFAULT_CLIENT_REF, s.cfg, &defaultClientCfg)
	s.RegisterClient(dto.NET_DEFAULT_CLIENT_REF, defaultClient)

	for _, site := range s.cfg.Sites {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.RegisterSiteConfig(site); err != nil {
			return fmt.Errorf("register site %s: %w", site.Ref, err)
		}
	}

	s.relay.Info(relays.RlyNetLog{Msg: fmt.Sprintf("Net service hydrated with %d site(s)", len(s.cfg.Sites))})
	return nil
}
