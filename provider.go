package noncenet

import (
	"sync"

	"github.com/joy-dx/lockablemap"
	"github.com/joy-dx/noncenet/auth/cookienonce"
	"github.com/joy-dx/noncenet/config"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/relays"
)

var (
	service     *NetSvc
	serviceOnce sync.Once
)

func ProvideNetSvc(cfg *config.NetSvcConfig) *NetSvc {
	serviceOnce.Do(func() {
		service = newNetSvc(cfg)
		if service.relay != nil {
			service.relay.Debug(relays.RlyNetLog{Msg: "Net service started"})
		}
	})
	return service
}

func newNetSvc(cfg *config.NetSvcConfig) *NetSvc {
	return &NetSvc{
		cfg:            cfg,
		relay:          cfg.Relay(),
		clients:        make(map[string]dto.NetClientInterface),
		sites:          make(map[string]*cookienonce.Authenticator),
		sessionState:   lockablemap.NewLockableMap[string, dto.SessionNotification](),
		listenersByRef: make(map[string][]chan dto.SessionNotification),
	}
}
