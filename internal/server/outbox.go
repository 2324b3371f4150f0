package server

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/Tyrowin/roomchat/internal/codec"
)

// Mailbox is an unbounded Outbox. The hub pushes into it without ever
// blocking; the owning session drains it from its write pump.
type Mailbox struct {
	mu     sync.Mutex
	items  *queue.Queue
	ready  chan struct{}
	closed bool
}

// NewMailbox returns an empty, open mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		items: queue.New(),
		ready: make(chan struct{}, 1),
	}
}

// Deliver queues r. It reports false, dropping r, once the mailbox is closed.
func (m *Mailbox) Deliver(r codec.Response) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.items.Add(r)
	m.mu.Unlock()

	m.signal()
	return true
}

// Close stops further deliveries. Responses already queued can still be drained.
func (m *Mailbox) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.signal()
}

// Ready fires after a delivery or Close. Several events may be coalesced
// into one signal, so a receiver should always Drain everything.
func (m *Mailbox) Ready() <-chan struct{} {
	return m.ready
}

// Drain removes and returns all queued responses in delivery order and
// reports whether the mailbox has been closed.
func (m *Mailbox) Drain() ([]codec.Response, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]codec.Response, 0, m.items.Length())
	for m.items.Length() > 0 {
		out = append(out, m.items.Remove().(codec.Response))
	}
	return out, m.closed
}

// Len reports how many responses are waiting.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Length()
}

func (m *Mailbox) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}
