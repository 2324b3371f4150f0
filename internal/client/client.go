// Package client is a small library for talking to a chat relay: it encodes
// commands with the client side of the codec and decodes the responses the
// server pushes back.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/Tyrowin/roomchat/internal/codec"
)

// Client is one connection to a relay. Send and Receive may be used from
// different goroutines; Send is safe for concurrent use.
type Client struct {
	conn   io.ReadWriteCloser
	reader *codec.Reader[codec.Response]

	mu  sync.Mutex
	buf bytes.Buffer
}

// Dial connects to a relay over TCP.
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn io.ReadWriteCloser) *Client {
	return &Client{
		conn:   conn,
		reader: codec.NewResponseReader(conn),
	}
}

// Send encodes cmd as one frame and writes it.
func (c *Client) Send(cmd codec.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Reset()
	if err := (codec.ClientCodec{}).Encode(cmd, &c.buf); err != nil {
		return err
	}
	if _, err := c.conn.Write(c.buf.Bytes()); err != nil {
		return fmt.Errorf("send %T: %w", cmd, err)
	}
	return nil
}

// Receive blocks until the next response arrives. It returns io.EOF once the
// server has closed the connection on a frame boundary.
func (c *Client) Receive() (codec.Response, error) {
	return c.reader.Next()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
