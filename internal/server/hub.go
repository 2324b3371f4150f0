// Package server coordinates session registration, room membership, and
// message fan-out for the chat relay via the Hub type.
package server

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/Tyrowin/roomchat/internal/codec"
)

const defaultMailboxSize = 256

// Hub owns every room and every session's outbound handle. All state is
// touched only by the goroutine running Run; callers reach it by posting
// operations to a single mailbox, which makes each operation atomic with
// respect to the others.
type Hub struct {
	ops      chan hubOp
	sessions map[ConnectionID]*member
	rooms    map[string]map[ConnectionID]struct{}
	presence bool
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

type hubOp func(h *Hub)

type member struct {
	out  Outbox
	room string
	nick string
}

// HubOption customizes a Hub.
type HubOption func(*Hub)

// WithPresenceNotices makes the hub tell room members when someone enters or
// leaves their room, as a Message response.
func WithPresenceNotices() HubOption {
	return func(h *Hub) { h.presence = true }
}

// WithHubLogger sets the hub logger.
func WithHubLogger(log *slog.Logger) HubOption {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHub creates a Hub holding only the default room. Run must be started
// before any other method is used.
func NewHub(opts ...HubOption) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		ops:      make(chan hubOp, defaultMailboxSize),
		sessions: make(map[ConnectionID]*member),
		rooms:    map[string]map[ConnectionID]struct{}{DefaultRoom: {}},
		log:      slog.New(slog.DiscardHandler),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes the mailbox one operation at a time until Shutdown. It
// should be called in its own goroutine.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownSessions()
			return
		case op := <-h.ops:
			op(h)
		}
	}
}

// Shutdown stops the hub and closes every registered outbox so that the
// owning sessions flush and disconnect.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("Initiating hub shutdown")
	h.cancel()

	select {
	case <-h.done:
		h.log.Info("Hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.log.Warn("Hub shutdown timeout reached")
		return context.DeadlineExceeded
	}
}

// Register adds a session to the default room.
func (h *Hub) Register(ctx context.Context, id ConnectionID, out Outbox) error {
	return h.submit(ctx, func(h *Hub) { h.register(id, out) })
}

// Unregister removes a session from its room and from the hub. It is a no-op
// for unknown ids and does not block once the hub has stopped.
func (h *Hub) Unregister(id ConnectionID) {
	if err := h.submit(context.Background(), func(h *Hub) { h.unregister(id) }); err != nil {
		h.log.Debug("Unregister after hub stop", "conn_id", id)
	}
}

// SetNickName records a display name for id. Names are not required to be unique.
func (h *Hub) SetNickName(ctx context.Context, id ConnectionID, name string) (codec.SetNickNameResponse, error) {
	return request(ctx, h, func(h *Hub) codec.SetNickNameResponse {
		if m, ok := h.sessions[id]; ok {
			m.nick = name
		}
		return codec.SetNickNameResponse{Name: name}
	})
}

// ListRooms returns all room names in ascending order.
func (h *Hub) ListRooms(ctx context.Context) (codec.RoomsResponse, error) {
	return request(ctx, h, func(h *Hub) codec.RoomsResponse {
		return codec.RoomsResponse{Rooms: h.roomNames()}
	})
}

// Join moves id out of its current room and into room, creating room if it
// does not exist yet. The Joined reply is queued on id's outbox in the same
// operation, ahead of any traffic from the new room.
func (h *Hub) Join(ctx context.Context, id ConnectionID, room string) (codec.JoinedResponse, error) {
	return request(ctx, h, func(h *Hub) codec.JoinedResponse {
		resp := codec.JoinedResponse{Room: room}
		if h.join(id, room) {
			h.sessions[id].out.Deliver(resp)
		}
		return resp
	})
}

// Broadcast sends text to every other member of the sender's current room.
// The sender does not receive its own message.
func (h *Hub) Broadcast(ctx context.Context, id ConnectionID, text string) error {
	return h.submit(ctx, func(h *Hub) { h.broadcast(id, text) })
}

// Rooms returns a consistent snapshot of every room and its members, ordered by name.
func (h *Hub) Rooms(ctx context.Context) ([]RoomInfo, error) {
	return request(ctx, h, func(h *Hub) []RoomInfo {
		return lo.Map(h.roomNames(), func(name string, _ int) RoomInfo {
			members := lo.Keys(h.rooms[name])
			slices.Sort(members)
			return RoomInfo{Name: name, Members: members}
		})
	})
}

func (h *Hub) submit(ctx context.Context, op hubOp) error {
	if h.ctx.Err() != nil {
		return ErrHubStopped
	}
	select {
	case h.ops <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// request posts fn to the hub and waits for its result.
func request[T any](ctx context.Context, h *Hub, fn func(h *Hub) T) (T, error) {
	var zero T
	reply := make(chan T, 1)
	if err := h.submit(ctx, func(h *Hub) { reply <- fn(h) }); err != nil {
		return zero, err
	}

	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-h.done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrHubStopped
		}
	}
}

func (h *Hub) register(id ConnectionID, out Outbox) {
	if out == nil {
		h.log.Warn("Received nil outbox registration; skipping", "conn_id", id)
		return
	}
	if _, ok := h.sessions[id]; ok {
		h.log.Warn("Duplicate registration; skipping", "conn_id", id)
		return
	}

	m := &member{out: out, nick: strconv.FormatUint(uint64(id), 10)}
	h.sessions[id] = m
	h.enter(id, m, DefaultRoom)
	h.log.Info("Session registered", "conn_id", id, "sessions", len(h.sessions))
}

func (h *Hub) unregister(id ConnectionID) {
	m, ok := h.sessions[id]
	if !ok {
		return
	}
	h.leave(id, m)
	delete(h.sessions, id)
	h.log.Info("Session unregistered", "conn_id", id, "sessions", len(h.sessions))
}

// join reports whether id is a registered session.
func (h *Hub) join(id ConnectionID, room string) bool {
	m, ok := h.sessions[id]
	if !ok {
		h.log.Warn("Join from unknown session", "conn_id", id, "room", room)
		return false
	}
	if m.room == room {
		return true
	}
	from := m.room
	h.leave(id, m)
	h.enter(id, m, room)
	h.log.Debug("Session changed room", "conn_id", id, "from", from, "room", room)
	return true
}

func (h *Hub) broadcast(id ConnectionID, text string) {
	m, ok := h.sessions[id]
	if !ok {
		h.log.Debug("Broadcast from unknown session dropped", "conn_id", id)
		return
	}
	n := h.deliverRoom(m.room, id, codec.MessageResponse{Text: text})
	h.log.Debug("Broadcasting message", "conn_id", id, "room", m.room, "targets", n)
}

// enter adds id to room, creating the room when needed.
func (h *Hub) enter(id ConnectionID, m *member, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[ConnectionID]struct{})
		h.rooms[room] = members
	}
	members[id] = struct{}{}
	m.room = room
	h.announce(room, id, m.nick+" joined")
}

// leave removes id from its room. Emptied rooms are deleted, except the default room.
func (h *Hub) leave(id ConnectionID, m *member) {
	members := h.rooms[m.room]
	delete(members, id)
	h.announce(m.room, id, m.nick+" left")
	if len(members) == 0 && m.room != DefaultRoom {
		delete(h.rooms, m.room)
	}
	m.room = ""
}

func (h *Hub) announce(room string, about ConnectionID, text string) {
	if h.presence {
		h.deliverRoom(room, about, codec.MessageResponse{Text: text})
	}
}

// deliverRoom pushes r to every member of room except skip and returns the
// number of outboxes that accepted it.
func (h *Hub) deliverRoom(room string, skip ConnectionID, r codec.Response) int {
	delivered := 0
	for id := range h.rooms[room] {
		if id == skip {
			continue
		}
		if h.sessions[id].out.Deliver(r) {
			delivered++
		}
	}
	return delivered
}

func (h *Hub) roomNames() []string {
	names := lo.Keys(h.rooms)
	slices.Sort(names)
	return names
}

// shutdownSessions closes every outbox so the owning sessions drain and disconnect.
func (h *Hub) shutdownSessions() {
	h.log.Info("Shutting down all sessions")
	for _, m := range h.sessions {
		m.out.Close()
	}
	h.log.Info("Closed session outboxes", "sessions", len(h.sessions))
}
