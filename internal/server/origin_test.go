package server

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOriginPolicy(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	policy := newOriginPolicy([]string{"http://Allowed.test", "not an origin", ""}, log)

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "exact", origin: "http://allowed.test", want: true},
		{name: "case insensitive", origin: "HTTP://ALLOWED.TEST", want: true},
		{name: "other host", origin: "http://evil.test"},
		{name: "other scheme", origin: "https://allowed.test"},
		{name: "missing", origin: ""},
		{name: "malformed", origin: "::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			require.Equal(t, tt.want, policy.checkOrigin(r))
		})
	}
}

func TestOriginPolicyWildcard(t *testing.T) {
	policy := newOriginPolicy([]string{"*"}, slog.New(slog.DiscardHandler))

	r := httptest.NewRequest("GET", "/ws", nil)
	require.True(t, policy.checkOrigin(r))
}

func TestOriginPolicyEmpty(t *testing.T) {
	policy := newOriginPolicy(nil, slog.New(slog.DiscardHandler))

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Origin", "http://localhost:8081")
	require.False(t, policy.checkOrigin(r))
}
