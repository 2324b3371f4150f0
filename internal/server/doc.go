// Package server implements the chat relay core: the Hub that owns room
// membership, one Session per connection, and the TCP and WebSocket intake
// that feeds accepted connections to them.
//
// The implementation is organized into specialized files for configuration, hub
// management, sessions, routing, and HTTP handlers.
package server
