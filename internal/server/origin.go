// Package server decides which browser origins may open a WebSocket to the relay.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// originPolicy holds the normalized CHAT_ALLOWED_ORIGINS list. "*" admits any origin.
type originPolicy struct {
	any     bool
	allowed map[string]struct{}
	log     *slog.Logger
}

func newOriginPolicy(origins []string, log *slog.Logger) *originPolicy {
	p := &originPolicy{allowed: make(map[string]struct{}, len(origins)), log: log}
	for _, raw := range origins {
		switch o := strings.TrimSpace(raw); o {
		case "":
		case "*":
			p.any = true
		default:
			key, err := originKey(o)
			if err != nil {
				log.Warn("Ignoring invalid origin in configuration", "origin", raw, "error", err)
				continue
			}
			p.allowed[key] = struct{}{}
		}
	}
	return p
}

// originKey reduces an origin to lower-case scheme://host.
func originKey(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("origin %q lacks scheme or host", origin)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), nil
}

// checkOrigin is the upgrader's CheckOrigin hook. Requests without an Origin
// header are refused unless every origin is allowed.
func (p *originPolicy) checkOrigin(r *http.Request) bool {
	if p.any {
		return true
	}
	header := r.Header.Get("Origin")
	if key, err := originKey(header); err == nil {
		if _, ok := p.allowed[key]; ok {
			return true
		}
	}
	p.log.Warn("Blocked WebSocket connection from disallowed origin", "origin", header)
	return false
}
