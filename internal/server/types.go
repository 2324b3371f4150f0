// Package server defines shared identifiers, room snapshots, and utility
// helpers that are reused across session and hub logic.
package server

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/Tyrowin/roomchat/internal/codec"
)

// DefaultRoom is the room every session starts in. It is never deleted.
const DefaultRoom = "Main"

// ConnectionID identifies a session for the lifetime of the process.
type ConnectionID uint64

// Outbox receives responses addressed to one connection. Deliver must not
// block and reports false once the outbox is closed.
type Outbox interface {
	Deliver(r codec.Response) bool
	Close()
}

// deadliner is implemented by connections that support I/O deadlines.
type deadliner interface {
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// RoomInfo is a point-in-time view of one room.
type RoomInfo struct {
	Name    string         `json:"name"`
	Members []ConnectionID `json:"members"`
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "io: read/write on closed pipe") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset by peer")
}
