package server

import "errors"

var (
	// ErrHubStopped is returned by Hub calls made after Shutdown.
	ErrHubStopped = errors.New("server: hub stopped")

	// ErrServerClosed is returned when a connection is offered after Close.
	ErrServerClosed = errors.New("server: closed")

	// ErrInvalidConfig wraps configuration parse and validation failures.
	ErrInvalidConfig = errors.New("server: invalid configuration")
)
