package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/roomchat/internal/codec"
)

const (
	wsReadLimit    = 1 << 20
	wsCloseTimeout = time.Second
)

// wsConn presents a WebSocket as the byte stream the codec expects. Each
// binary message carries an arbitrary chunk of that stream, so frames may
// span or share messages.
type wsConn struct {
	ws  *websocket.Conn
	cur io.Reader
}

// newWSConn clears deadlines left over from the HTTP server's request
// timeouts; the session sets its own.
func newWSConn(ws *websocket.Conn) *wsConn {
	_ = ws.NetConn().SetDeadline(time.Time{})
	ws.SetReadLimit(wsReadLimit)
	return &wsConn{ws: ws}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.cur == nil {
			messageType, r, err := c.ws.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					return 0, io.EOF
				}
				return 0, err
			}
			if messageType != websocket.BinaryMessage {
				return 0, fmt.Errorf("%w: websocket message type %d, want binary", codec.ErrData, messageType)
			}
			c.cur = r
		}

		n, err := c.cur.Read(p)
		if errors.Is(err, io.EOF) {
			c.cur = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write sends p as one binary message.
func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close sends a normal close frame, best effort, and closes the socket.
func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsCloseTimeout))
	return c.ws.Close()
}

func (c *wsConn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

func (c *wsConn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}
