// Package server wires HTTP handlers into a ServeMux via routing helpers.
package server

import "net/http"

// SetupRoutes configures and returns an HTTP ServeMux with all routes served by s.
// It sets up handlers for health check, room statistics, and the WebSocket endpoint.
func SetupRoutes(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HealthHandler)
	mux.HandleFunc("/rooms", s.RoomsHandler)
	mux.HandleFunc("/ws", s.WebSocketHandler)
	return mux
}
