package dto

import (
	"context"
	"errors"
	"testing"
)

type stubReqConfig struct{}

func (stubReqConfig) Ref() NetClientType                          { return "stub" }
func (stubReqConfig) NewRequest(ctx context.Context) (any, error) { return "built", nil }

func TestRequestConfig_Validate_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     RequestConfig
		wantErr error
	}{
		{name: "missing client ref", cfg: RequestConfig{ReqConfig: stubReqConfig{}}, wantErr: ErrNilClientRef},
		{name: "missing req config", cfg: RequestConfig{ClientRef: "shop"}, wantErr: ErrNilReqConfig},
		{name: "site ref with req config", cfg: RequestConfig{ClientRef: "shop", ReqConfig: stubReqConfig{}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate()=%v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestConfig_Builders_Golden(t *testing.T) {
	t.Parallel()

	cfg := DefaultRequestConfig()
	if cfg.ClientRef != NET_DEFAULT_CLIENT_REF || cfg.MaxRetries != 3 || cfg.Delay == nil {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg.WithClientRef("shop").
		WithReqConfig(stubReqConfig{}).
		WithMaxRetries(0).
		WithTaskName("GET orders")

	got, err := cfg.BuildRequest(context.Background())
	if err != nil || got != "built" {
		t.Fatalf("BuildRequest()=%v, %v", got, err)
	}
	if cfg.ClientRef != "shop" || cfg.MaxRetries != 0 || cfg.TaskName != "GET orders" {
		t.Fatalf("builders not applied: %+v", cfg)
	}

	var empty RequestConfig
	if _, err := empty.BuildRequest(context.Background()); !errors.Is(err, ErrNilReqConfig) {
		t.Fatalf("BuildRequest on empty config err=%v", err)
	}
}
