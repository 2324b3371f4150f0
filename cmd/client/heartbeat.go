package main

import (
	"sync/atomic"
	"time"

	"github.com/Tyrowin/roomchat/internal/codec"
)

// defaultHeartbeat stays well below the server's default 5m idle timeout.
const defaultHeartbeat = 30 * time.Second

// heartbeat counts keepalive pings in flight so their replies can be hidden.
// A Ping reply is attributed to the heartbeat while any is outstanding.
type heartbeat struct {
	pending atomic.Int64
}

func (h *heartbeat) sent() {
	h.pending.Add(1)
}

// swallow reports whether resp answers a heartbeat and should not be shown.
func (h *heartbeat) swallow(resp codec.Response) bool {
	if _, ok := resp.(codec.PingResponse); !ok {
		return false
	}
	for {
		n := h.pending.Load()
		if n <= 0 {
			return false
		}
		if h.pending.CompareAndSwap(n, n-1) {
			return true
		}
	}
}
