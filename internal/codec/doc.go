// Package codec implements the length-prefixed binary framing spoken by the
// chat relay and its clients.
//
// Every frame is a 2-byte big-endian length followed by that many bytes of a
// CBOR map of the form {"cmd": <variant>, "data": <payload>}. The same framing
// is used in both directions; ServerCodec decodes commands and encodes
// responses, ClientCodec does the reverse.
package codec
