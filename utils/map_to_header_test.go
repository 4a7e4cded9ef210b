package utils

import "testing"

func TestMapToHeader_Golden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      map[string]string
		want    map[string]string
		wantLen int
	}{
		{
			name: "empty",
			in:   map[string]string{},
		},
		{
			name:    "canonicalises names",
			in:      map[string]string{"x-wp-nonce": "abc", "user-agent": "noncenet"},
			want:    map[string]string{"X-WP-Nonce": "abc", "User-Agent": "noncenet"},
			wantLen: 2,
		},
		{
			name:    "trims and skips blank names",
			in:      map[string]string{" X-Tenant ": " acme ", " ": "dropped"},
			want:    map[string]string{"X-Tenant": "acme"},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := MapToHeader(tt.in)
			if len(h) != tt.wantLen {
				t.Fatalf("len=%d want %d (%v)", len(h), tt.wantLen, h)
			}
			for k, wantV := range tt.want {
				if got := h.Get(k); got != wantV {
					t.Fatalf("header %s=%q want %q", k, got, wantV)
				}
			}
		})
	}
}
