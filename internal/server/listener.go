package server

import (
	"errors"
	"net"
	"time"
)

const maxAcceptDelay = time.Second

type trackedListener struct {
	net.Listener
}

// Serve accepts TCP (or any stream) connections from ln until Close is
// called, then returns ErrServerClosed. Temporary accept failures are retried
// with backoff. ln is closed when Serve returns.
func (s *Server) Serve(ln net.Listener) error {
	l := &trackedListener{Listener: ln}
	if !s.track(l) {
		_ = ln.Close()
		return ErrServerClosed
	}
	defer func() {
		s.untrack(l)
		_ = ln.Close()
	}()

	s.log.Info("Listening for TCP connections", "addr", ln.Addr().String())

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				delay = nextAcceptDelay(delay)
				s.log.Warn("Accept error; retrying", "error", err, "delay", delay)
				time.Sleep(delay)
				continue
			}
			return err
		}
		delay = 0

		if err := s.HandleConn(conn, conn.RemoteAddr().String()); err != nil {
			return err
		}
	}
}

func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > maxAcceptDelay {
		d = maxAcceptDelay
	}
	return d
}

func (s *Server) track(l *trackedListener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.listeners[l] = struct{}{}
	return true
}

func (s *Server) untrack(l *trackedListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, l)
}
