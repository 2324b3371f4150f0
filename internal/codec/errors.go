package codec

import "errors"

var (
	// ErrSyntax is returned when a frame payload is not well-formed CBOR.
	ErrSyntax = errors.New("codec: malformed payload")

	// ErrData is returned when a payload is well-formed CBOR but does not
	// describe a known message: not a map, unknown or missing tag, or a
	// payload of the wrong type for its tag.
	ErrData = errors.New("codec: invalid message")

	// ErrUnexpectedEOF is returned when the stream ends with a partial frame buffered.
	ErrUnexpectedEOF = errors.New("codec: stream closed inside a frame")

	// ErrFrameTooLarge is returned when a payload does not fit the length prefix,
	// or when an inbound frame declares a length above the reader limit.
	ErrFrameTooLarge = errors.New("codec: frame too large")

	// ErrEncode is returned when a value cannot be serialized.
	ErrEncode = errors.New("codec: cannot encode message")
)
