package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const defaultChunkSize = 4096

// Reader pulls bytes from an underlying stream and yields decoded values one
// frame at a time.
type Reader[T any] struct {
	r      io.Reader
	buf    bytes.Buffer
	chunk  []byte
	limit  int
	eof    bool
	decode func(*bytes.Buffer) (T, bool, error)
}

// ReaderOption customizes a Reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	limit     int
	chunkSize int
}

// WithMaxFrameSize rejects inbound frames declaring more than n payload bytes.
// Values outside (0, MaxFrameSize] are ignored.
func WithMaxFrameSize(n int) ReaderOption {
	return func(o *readerOptions) {
		if n > 0 && n <= MaxFrameSize {
			o.limit = n
		}
	}
}

// WithChunkSize sets how many bytes are requested from the stream per read.
func WithChunkSize(n int) ReaderOption {
	return func(o *readerOptions) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// NewCommandReader returns a Reader decoding commands, for use by the server.
func NewCommandReader(r io.Reader, opts ...ReaderOption) *Reader[Command] {
	return newReader(r, ServerCodec{}.Decode, opts)
}

// NewResponseReader returns a Reader decoding responses, for use by clients.
func NewResponseReader(r io.Reader, opts ...ReaderOption) *Reader[Response] {
	return newReader(r, ClientCodec{}.Decode, opts)
}

func newReader[T any](r io.Reader, decode func(*bytes.Buffer) (T, bool, error), opts []ReaderOption) *Reader[T] {
	o := readerOptions{limit: MaxFrameSize, chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Reader[T]{
		r:      r,
		chunk:  make([]byte, o.chunkSize),
		limit:  o.limit,
		decode: decode,
	}
}

// Next blocks until a complete value is available. It returns io.EOF when the
// stream ends on a frame boundary and ErrUnexpectedEOF when it ends inside one.
func (r *Reader[T]) Next() (T, error) {
	var zero T
	for {
		if n, ok := peekLength(&r.buf); ok && n > r.limit {
			return zero, fmt.Errorf("%w: declared %d bytes, limit is %d", ErrFrameTooLarge, n, r.limit)
		}

		v, ok, err := r.decode(&r.buf)
		if err != nil {
			return zero, err
		}
		if ok {
			return v, nil
		}

		if r.eof {
			if r.buf.Len() > 0 {
				return zero, fmt.Errorf("%w: %d bytes pending", ErrUnexpectedEOF, r.buf.Len())
			}
			return zero, io.EOF
		}

		n, err := r.r.Read(r.chunk)
		if n > 0 {
			r.buf.Write(r.chunk[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return zero, err
			}
			r.eof = true
		}
	}
}

// Buffered reports how many bytes are held but not yet decoded.
func (r *Reader[T]) Buffered() int {
	return r.buf.Len()
}
