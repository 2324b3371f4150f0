// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the room statistics endpoint.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WebSocketHandler handles WebSocket upgrade requests. It validates that the
// request uses the GET method, upgrades the HTTP connection, and hands the
// resulting binary stream to HandleConn like any accepted TCP connection.
func (s *Server) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}
	if s.isClosed() {
		http.Error(w, "Server is shutting down.", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	if err := s.HandleConn(newWSConn(conn), r.RemoteAddr); err != nil {
		s.log.Debug("WebSocket connection refused", "addr", r.RemoteAddr, "error", err)
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "roomchat server is running!")
}

type roomsPayload struct {
	Rooms []RoomInfo `json:"rooms"`
}

// RoomsHandler writes a JSON snapshot of every room and its members.
func (s *Server) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
		return
	}

	rooms, err := s.hub.Rooms(r.Context())
	if err != nil {
		s.log.Warn("Room snapshot unavailable", "error", err)
		http.Error(w, "Room registry unavailable.", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(roomsPayload{Rooms: rooms}); err != nil {
		s.log.Error("Error writing rooms response", "error", err)
	}
}
