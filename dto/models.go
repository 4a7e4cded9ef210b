package dto

import (
	"net/http"
	"time"
)

const NET_DEFAULT_CLIENT_REF = "default"

type NetClientType string

// NetClient describes a registered client for state reporting.
type NetClient struct {
	Name        string        `json:"name" yaml:"name"`
	Ref         string        `json:"ref" yaml:"ref"`
	ClientType  NetClientType `json:"client_type" yaml:"client_type"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
}

type NetState struct {
	ExtraHeaders   ExtraHeaders  `json:"net_extra_headers,omitempty" yaml:"net_extra_headers,omitempty"`
	RequestTimeout time.Duration `json:"net_request_timeout,omitempty" yaml:"net_request_timeout,omitempty"`
	UserAgent      string        `json:"net_user_agent,omitempty" yaml:"net_user_agent,omitempty"`
	Clients        []string      `json:"net_clients,omitempty" yaml:"net_clients,omitempty"`
	// SessionsStatus last notification seen per site ref
	SessionsStatus map[string]SessionNotification `json:"net_sessions_status,omitempty" yaml:"net_sessions_status,omitempty"`
}

type Response struct {
	StatusCode int
	Headers    http.Header
	// As well as casting to ResponseObject if set, return as byes
	Body []byte
}
