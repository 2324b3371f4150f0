// Package server ties the hub, session construction, and connection intake
// together behind the Server type.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Server accepts connections from any transport, gives each one a
// process-unique ConnectionID, and runs a Session for it against a single Hub.
type Server struct {
	cfg      Config
	hub      *Hub
	log      *slog.Logger
	origins  *originPolicy
	upgrader websocket.Upgrader

	nextID   atomic.Uint64
	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	listeners map[*trackedListener]struct{}
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the logger shared by the server, its hub, and its sessions.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New validates cfg, creates the hub, and starts it.
func New(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:       cfg,
		log:       slog.New(slog.DiscardHandler),
		ctx:       ctx,
		cancel:    cancel,
		listeners: make(map[*trackedListener]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	hubOpts := []HubOption{WithHubLogger(s.log.With("component", "hub"))}
	if cfg.PresenceNotices {
		hubOpts = append(hubOpts, WithPresenceNotices())
	}
	s.hub = NewHub(hubOpts...)
	go s.hub.Run()

	s.origins = newOriginPolicy(cfg.Origins(), s.log)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.checkOrigin,
	}

	s.log.Info("Hub started and ready to manage connections", "presence_notices", cfg.PresenceNotices)
	return s, nil
}

// Hub returns the registry shared by every session of s.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Config returns the configuration s was created with.
func (s *Server) Config() Config {
	return s.cfg
}

// HandleConn takes ownership of conn and serves it in a new goroutine. After
// Close it closes conn and returns ErrServerClosed.
func (s *Server) HandleConn(conn io.ReadWriteCloser, addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return ErrServerClosed
	}
	s.sessions.Add(1)
	s.mu.Unlock()

	id := ConnectionID(s.nextID.Add(1))
	session := NewSession(id, conn, addr, s.hub,
		WithSessionLogger(s.log),
		WithIdleTimeout(s.cfg.IdleTimeout),
		WithWriteTimeout(s.cfg.WriteTimeout),
		WithMaxFrameSize(s.cfg.MaxFrameSize),
	)
	s.log.Info("Client connected", "conn_id", id, "addr", addr)

	go func() {
		defer s.sessions.Done()
		if err := session.Run(s.ctx); err != nil {
			s.log.Warn("Session ended with error", "conn_id", id, "error", err)
		}
	}()
	return nil
}

// Close stops accepting connections and closes every listener passed to
// Serve. Sessions already running are left alone.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for l := range s.listeners {
		if err := l.Listener.Close(); err != nil && !isExpectedCloseError(err) {
			errs = append(errs, err)
		}
		delete(s.listeners, l)
	}
	return errors.Join(errs...)
}

// Shutdown closes the server, stops the hub, and waits up to timeout for
// sessions to flush and disconnect. Sessions still running after that have
// their connections closed.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.log.Info("Initiating server shutdown")
	closeErr := s.Close()

	deadline := time.Now().Add(timeout)
	hubErr := s.hub.Shutdown(timeout)

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()

	var waitErr error
	select {
	case <-done:
	case <-time.After(time.Until(deadline)):
		s.log.Warn("Shutdown timeout reached; closing remaining connections")
		waitErr = context.DeadlineExceeded
	}
	s.cancel()
	if waitErr != nil {
		<-done
	}

	s.log.Info("Server shutdown completed")
	return errors.Join(closeErr, hubErr, waitErr)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
