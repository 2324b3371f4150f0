package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tyrowin/roomchat/internal/client"
	"github.com/Tyrowin/roomchat/internal/codec"
	"github.com/Tyrowin/roomchat/internal/server"
	"github.com/Tyrowin/roomchat/internal/server/mocks"
)

const sessionID = server.ConnectionID(7)

type sessionHarness struct {
	session  *server.Session
	registry *mocks.MockRegistry
	peer     net.Conn
	client   *client.Client
	done     chan error
}

func newSessionHarness(t *testing.T, opts ...server.SessionOption) *sessionHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockRegistry(ctrl)
	clientSide, serverSide := net.Pipe()

	h := &sessionHarness{
		session:  server.NewSession(sessionID, serverSide, "pipe", registry, opts...),
		registry: registry,
		peer:     clientSide,
		client:   client.New(clientSide),
		done:     make(chan error, 1),
	}
	t.Cleanup(func() { _ = h.client.Close() })
	return h
}

func (h *sessionHarness) start(ctx context.Context) {
	go func() { h.done <- h.session.Run(ctx) }()
}

func (h *sessionHarness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
		return nil
	}
}

func (h *sessionHarness) expectLifecycle() {
	h.registry.EXPECT().Register(gomock.Any(), sessionID, gomock.Any()).Return(nil)
	h.registry.EXPECT().Unregister(sessionID)
}

func TestSessionDefaults(t *testing.T) {
	h := newSessionHarness(t)

	require.Equal(t, sessionID, h.session.ID())
	require.Equal(t, "7", h.session.Nickname())
	require.Equal(t, server.DefaultRoom, h.session.Room())
}

// TestSessionPingDoesNotTouchRegistry verifies that Ping is answered by the
// session itself.
func TestSessionPingDoesNotTouchRegistry(t *testing.T) {
	h := newSessionHarness(t)
	h.expectLifecycle()
	h.start(context.Background())

	require.NoError(t, h.client.Send(codec.PingCommand{}))
	resp, err := h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.PingResponse{}, resp)

	require.NoError(t, h.client.Close())
	require.NoError(t, h.wait(t))
}

func TestSessionRepliesAndTracksState(t *testing.T) {
	h := newSessionHarness(t)
	var out server.Outbox
	h.registry.EXPECT().
		Register(gomock.Any(), sessionID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ server.ConnectionID, o server.Outbox) error {
			out = o
			return nil
		})
	h.registry.EXPECT().Unregister(sessionID)
	h.registry.EXPECT().
		SetNickName(gomock.Any(), sessionID, "alice").
		Return(codec.SetNickNameResponse{Name: "alice"}, nil)
	h.registry.EXPECT().
		ListRooms(gomock.Any()).
		Return(codec.RoomsResponse{Rooms: []string{"Main", "rust"}}, nil)
	h.registry.EXPECT().
		Join(gomock.Any(), sessionID, "rust").
		DoAndReturn(func(context.Context, server.ConnectionID, string) (codec.JoinedResponse, error) {
			resp := codec.JoinedResponse{Room: "rust"}
			out.Deliver(resp)
			return resp, nil
		})
	h.start(context.Background())

	require.NoError(t, h.client.Send(codec.NickNameCommand{Name: "alice"}))
	resp, err := h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.SetNickNameResponse{Name: "alice"}, resp)

	require.NoError(t, h.client.Send(codec.ListCommand{}))
	resp, err = h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.RoomsResponse{Rooms: []string{"Main", "rust"}}, resp)

	require.NoError(t, h.client.Send(codec.JoinCommand{Room: "rust"}))
	resp, err = h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.JoinedResponse{Room: "rust"}, resp)

	require.NoError(t, h.client.Close())
	require.NoError(t, h.wait(t))

	require.Equal(t, "alice", h.session.Nickname())
	require.Equal(t, "rust", h.session.Room())
}

// TestSessionLeavesJoinedReplyToRegistry verifies that the session records the
// new room without queueing a second Joined reply.
func TestSessionLeavesJoinedReplyToRegistry(t *testing.T) {
	h := newSessionHarness(t)
	h.expectLifecycle()
	h.registry.EXPECT().
		Join(gomock.Any(), sessionID, "rust").
		Return(codec.JoinedResponse{Room: "rust"}, nil)
	h.start(context.Background())

	require.NoError(t, h.client.Send(codec.JoinCommand{Room: "rust"}))
	require.NoError(t, h.client.Send(codec.PingCommand{}))

	resp, err := h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.PingResponse{}, resp)

	require.NoError(t, h.client.Close())
	require.NoError(t, h.wait(t))
	require.Equal(t, "rust", h.session.Room())
}

func TestSessionForwardsMessagesWithoutReply(t *testing.T) {
	h := newSessionHarness(t)
	h.expectLifecycle()
	h.registry.EXPECT().Broadcast(gomock.Any(), sessionID, "hello").Return(nil)
	h.start(context.Background())

	require.NoError(t, h.client.Send(codec.MessageCommand{Text: "hello"}))
	require.NoError(t, h.client.Send(codec.PingCommand{}))

	resp, err := h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.PingResponse{}, resp, "Message must not be answered")

	require.NoError(t, h.client.Close())
	require.NoError(t, h.wait(t))
}

func TestSessionWritesDeliveredResponses(t *testing.T) {
	h := newSessionHarness(t)
	outboxes := make(chan server.Outbox, 1)
	h.registry.EXPECT().
		Register(gomock.Any(), sessionID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ server.ConnectionID, out server.Outbox) error {
			outboxes <- out
			return nil
		})
	h.registry.EXPECT().Unregister(sessionID)
	h.start(context.Background())

	out := <-outboxes
	require.True(t, out.Deliver(codec.MessageResponse{Text: "from afar"}))

	resp, err := h.client.Receive()
	require.NoError(t, err)
	require.Equal(t, codec.MessageResponse{Text: "from afar"}, resp)

	require.NoError(t, h.client.Close())
	require.NoError(t, h.wait(t))
	require.False(t, out.Deliver(codec.PingResponse{}), "outbox is closed once the session ends")
}

// TestSessionDecodeErrorEndsSession verifies that a malformed frame closes
// the connection and still unregisters the session.
func TestSessionDecodeErrorEndsSession(t *testing.T) {
	h := newSessionHarness(t)
	h.expectLifecycle()
	h.start(context.Background())

	_, err := h.peer.Write([]byte{0x00, 0x01, 0xff})
	require.NoError(t, err)

	require.ErrorIs(t, h.wait(t), codec.ErrSyntax)
}

func TestSessionOversizedFrameEndsSession(t *testing.T) {
	h := newSessionHarness(t, server.WithMaxFrameSize(16))
	h.expectLifecycle()
	h.start(context.Background())

	_, err := h.peer.Write([]byte{0x01, 0x00})
	require.NoError(t, err)

	require.ErrorIs(t, h.wait(t), codec.ErrFrameTooLarge)
}

func TestSessionIdleTimeout(t *testing.T) {
	h := newSessionHarness(t, server.WithIdleTimeout(50*time.Millisecond))
	h.expectLifecycle()
	h.start(context.Background())

	err := h.wait(t)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	require.True(t, netErr.Timeout())
}

func TestSessionRegisterFailure(t *testing.T) {
	h := newSessionHarness(t)
	h.registry.EXPECT().Register(gomock.Any(), sessionID, gomock.Any()).Return(server.ErrHubStopped)
	h.start(context.Background())

	require.ErrorIs(t, h.wait(t), server.ErrHubStopped)
}

func TestSessionStopsQuietlyWhenHubStops(t *testing.T) {
	h := newSessionHarness(t)
	h.expectLifecycle()
	h.registry.EXPECT().ListRooms(gomock.Any()).Return(codec.RoomsResponse{}, server.ErrHubStopped)
	h.start(context.Background())

	require.NoError(t, h.client.Send(codec.ListCommand{}))
	require.NoError(t, h.wait(t))
}

func TestSessionCanceledContextClosesConnection(t *testing.T) {
	h := newSessionHarness(t)
	h.expectLifecycle()
	ctx, cancel := context.WithCancel(context.Background())
	h.start(ctx)

	require.NoError(t, h.client.Send(codec.PingCommand{}))
	_, err := h.client.Receive()
	require.NoError(t, err)

	cancel()
	require.NoError(t, h.wait(t))
}
