// Package server manages individual chat connections, handling read/write
// pumps, command dispatch, and lifecycle control for each session.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/Tyrowin/roomchat/internal/codec"
)

//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=mocks/mock_registry.go -package=mocks

// Registry is the part of the Hub a Session talks to.
type Registry interface {
	Register(ctx context.Context, id ConnectionID, out Outbox) error
	Unregister(id ConnectionID)
	SetNickName(ctx context.Context, id ConnectionID, name string) (codec.SetNickNameResponse, error)
	ListRooms(ctx context.Context) (codec.RoomsResponse, error)
	// Join delivers the Joined reply to id's outbox itself; the returned value
	// only tells the caller which room it is now in.
	Join(ctx context.Context, id ConnectionID, room string) (codec.JoinedResponse, error)
	Broadcast(ctx context.Context, id ConnectionID, text string) error
}

const (
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Minute
)

// Session is the per-connection actor. It decodes commands from the
// connection, forwards them to the Registry, and writes whatever lands in
// its mailbox back to the connection. nickname and room are only touched by
// the goroutine running Run.
type Session struct {
	id           ConnectionID
	nickname     string
	room         string
	conn         io.ReadWriteCloser
	addr         string
	registry     Registry
	out          *Mailbox
	log          *slog.Logger
	maxFrameSize int
	idleTimeout  time.Duration
	writeTimeout time.Duration
	closeOnce    sync.Once
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session logger.
func WithSessionLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithIdleTimeout disconnects a client that sends nothing for d. Zero disables it.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d >= 0 {
			s.idleTimeout = d
		}
	}
}

// WithWriteTimeout bounds each write to the connection.
func WithWriteTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithMaxFrameSize lowers the largest inbound frame the session accepts.
func WithMaxFrameSize(n int) SessionOption {
	return func(s *Session) { s.maxFrameSize = n }
}

// NewSession creates a session for conn. Deadlines are applied only when
// conn supports them, as net.Conn does.
func NewSession(id ConnectionID, conn io.ReadWriteCloser, addr string, registry Registry, opts ...SessionOption) *Session {
	s := &Session{
		id:           id,
		nickname:     strconv.FormatUint(uint64(id), 10),
		room:         DefaultRoom,
		conn:         conn,
		addr:         addr,
		registry:     registry,
		out:          NewMailbox(),
		log:          slog.New(slog.DiscardHandler),
		maxFrameSize: codec.MaxFrameSize,
		idleTimeout:  defaultIdleTimeout,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("conn_id", id, "addr", addr)
	return s
}

// ID returns the connection id.
func (s *Session) ID() ConnectionID { return s.id }

// Nickname returns the last confirmed nickname. It must not be called while Run is active.
func (s *Session) Nickname() string { return s.nickname }

// Room returns the last joined room. It must not be called while Run is active.
func (s *Session) Room() string { return s.room }

// Run registers the session, serves the connection until it closes or fails,
// and always unregisters before returning. A clean close by the peer returns nil.
func (s *Session) Run(ctx context.Context) error {
	if err := s.registry.Register(ctx, s.id, s.out); err != nil {
		s.closeConn()
		return fmt.Errorf("register session %d: %w", s.id, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, s.closeConn)
	defer stop()

	var wg sync.WaitGroup
	var writeErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		writeErr = s.writePump(ctx)
		// unblocks the read pump when the write side fails first
		s.closeConn()
	}()

	readErr := s.readPump(ctx)

	s.registry.Unregister(s.id)
	s.out.Close()
	wg.Wait()
	s.closeConn()

	return errors.Join(readErr, writeErr)
}

func (s *Session) readPump(ctx context.Context) error {
	reader := codec.NewCommandReader(s.conn, codec.WithMaxFrameSize(s.maxFrameSize))
	for {
		s.extendReadDeadline()
		cmd, err := reader.Next()
		if err != nil {
			return s.handleReadError(err)
		}
		if err := s.dispatch(ctx, cmd); err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrHubStopped) {
				s.log.Debug("Session stopping", "error", err)
				return nil
			}
			return err
		}
	}
}

// dispatch forwards one decoded command. Replies go through the session's own
// mailbox. Joined is queued by the registry, since anything the new room says
// after the move must follow it.
func (s *Session) dispatch(ctx context.Context, cmd codec.Command) error {
	switch c := cmd.(type) {
	case codec.NickNameCommand:
		resp, err := s.registry.SetNickName(ctx, s.id, c.Name)
		if err != nil {
			return err
		}
		s.nickname = resp.Name
		s.out.Deliver(resp)
	case codec.ListCommand:
		resp, err := s.registry.ListRooms(ctx)
		if err != nil {
			return err
		}
		s.out.Deliver(resp)
	case codec.JoinCommand:
		resp, err := s.registry.Join(ctx, s.id, c.Room)
		if err != nil {
			return err
		}
		s.room = resp.Room
	case codec.MessageCommand:
		return s.registry.Broadcast(ctx, s.id, c.Text)
	case codec.PingCommand:
		s.out.Deliver(codec.PingResponse{})
	default:
		return fmt.Errorf("%w: unhandled command %T", codec.ErrData, cmd)
	}
	return nil
}

// handleReadError logs the read failure by class and returns nil for an
// orderly close.
func (s *Session) handleReadError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		s.log.Info("Client disconnected")
		return nil
	case errors.Is(err, codec.ErrUnexpectedEOF):
		s.log.Warn("Client disconnected mid-frame", "error", err)
	case errors.Is(err, codec.ErrSyntax), errors.Is(err, codec.ErrData):
		s.log.Warn("Invalid frame from client", "error", err)
	case errors.Is(err, codec.ErrFrameTooLarge):
		s.log.Warn("Frame exceeded maximum size", "limit", s.maxFrameSize, "error", err)
	case errors.As(err, &netErr) && netErr.Timeout():
		s.log.Info("Client idle timeout", "timeout", s.idleTimeout)
	case isExpectedCloseError(err):
		s.log.Debug("Connection closed", "error", err)
		return nil
	default:
		s.log.Error("Read error", "error", err)
	}
	return err
}

func (s *Session) writePump(ctx context.Context) error {
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.out.Ready():
		}

		batch, closed := s.out.Drain()
		buf.Reset()
		for _, resp := range batch {
			if err := (codec.ServerCodec{}).Encode(resp, &buf); err != nil {
				s.log.Error("Cannot encode response", "response", fmt.Sprintf("%T", resp), "error", err)
				return err
			}
		}
		if err := s.write(buf.Bytes()); err != nil {
			return err
		}
		if closed {
			return nil
		}
	}
}

func (s *Session) write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if d, ok := s.conn.(deadliner); ok {
		if err := d.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			s.log.Debug("Error setting write deadline", "error", err)
		}
	}
	if _, err := s.conn.Write(p); err != nil {
		if isExpectedCloseError(err) {
			s.log.Debug("Write on closed connection", "error", err)
			return nil
		}
		s.log.Warn("Write error", "error", err)
		return err
	}
	return nil
}

func (s *Session) extendReadDeadline() {
	if s.idleTimeout <= 0 {
		return
	}
	if d, ok := s.conn.(deadliner); ok {
		if err := d.SetReadDeadline(time.Now().Add(s.idleTimeout)); err != nil {
			s.log.Debug("Error setting read deadline", "error", err)
		}
	}
}

func (s *Session) closeConn() {
	s.closeOnce.Do(func() {
		if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
			s.log.Warn("Error closing connection", "error", err)
		}
	})
}
