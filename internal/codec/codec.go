package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// HeaderSize is the size of the length prefix.
	HeaderSize = 2

	// MaxFrameSize is the largest payload the length prefix can describe.
	MaxFrameSize = math.MaxUint16
)

// ServerCodec is the server side of the protocol: it decodes commands and
// encodes responses.
type ServerCodec struct{}

// Decode extracts one command from buf. It reports ok=false, consuming
// nothing, while the buffered bytes do not yet hold a complete frame.
func (ServerCodec) Decode(buf *bytes.Buffer) (cmd Command, ok bool, err error) {
	return decodeFrame(buf, parseCommand)
}

// Encode appends r to dst as one frame.
func (ServerCodec) Encode(r Response, dst *bytes.Buffer) error {
	if r == nil {
		return fmt.Errorf("%w: nil response", ErrEncode)
	}
	return encodeFrame(r.responseTag(), r.payload(), dst)
}

// ClientCodec is the mirror of ServerCodec, used by clients of the relay.
type ClientCodec struct{}

// Decode extracts one response from buf. See ServerCodec.Decode.
func (ClientCodec) Decode(buf *bytes.Buffer) (resp Response, ok bool, err error) {
	return decodeFrame(buf, parseResponse)
}

// Encode appends c to dst as one frame.
func (ClientCodec) Encode(c Command, dst *bytes.Buffer) error {
	if c == nil {
		return fmt.Errorf("%w: nil command", ErrEncode)
	}
	return encodeFrame(c.commandTag(), c.payload(), dst)
}

// peekLength returns the declared payload length without consuming the prefix.
func peekLength(buf *bytes.Buffer) (int, bool) {
	if buf.Len() < HeaderSize {
		return 0, false
	}
	return int(binary.BigEndian.Uint16(buf.Bytes())), true
}

func decodeFrame[T any](buf *bytes.Buffer, parse func([]byte) (T, error)) (T, bool, error) {
	var zero T
	n, ok := peekLength(buf)
	if !ok || buf.Len() < n+HeaderSize {
		return zero, false, nil
	}

	buf.Next(HeaderSize)
	v, err := parse(buf.Next(n))
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func encodeFrame(tag string, v any, dst *bytes.Buffer) error {
	p, err := marshalEnvelope(tag, v)
	if err != nil {
		return err
	}
	if len(p) > MaxFrameSize {
		return fmt.Errorf("%w: %s payload is %d bytes, limit is %d", ErrFrameTooLarge, tag, len(p), MaxFrameSize)
	}

	var header [HeaderSize]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(p)))
	dst.Grow(HeaderSize + len(p))
	dst.Write(header[:])
	dst.Write(p)
	return nil
}
