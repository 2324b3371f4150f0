package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// cborNull is the single-byte CBOR encoding of null.
const cborNull = 0xf6

// decMode matches map keys exactly, so {"CMD": ...} is not a tag.
var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{FieldNameMatching: cbor.FieldNameMatchingCaseSensitive}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// envelope is the adjacently tagged wire shape: {"cmd": tag, "data": payload}.
// Unit variants omit "data".
type envelope struct {
	Cmd  string          `cbor:"cmd"`
	Data cbor.RawMessage `cbor:"data,omitempty"`
}

func marshalEnvelope(tag string, v any) ([]byte, error) {
	env := envelope{Cmd: tag}
	if v != nil {
		data, err := cbor.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEncode, tag, err)
		}
		env.Data = data
	}

	p, err := cbor.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncode, tag, err)
	}
	return p, nil
}

func unmarshalEnvelope(p []byte) (envelope, error) {
	var env envelope
	if err := cbor.Wellformed(p); err != nil {
		return env, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if err := decMode.Unmarshal(p, &env); err != nil {
		return env, classify(err)
	}
	if env.Cmd == "" {
		return env, fmt.Errorf("%w: missing tag", ErrData)
	}
	return env, nil
}

func (e envelope) text() (string, error) {
	if len(e.Data) == 0 {
		return "", fmt.Errorf("%w: %s requires a string payload", ErrData, e.Cmd)
	}
	var s string
	if err := decMode.Unmarshal(e.Data, &s); err != nil {
		return "", classify(err)
	}
	return s, nil
}

func (e envelope) list() ([]string, error) {
	if len(e.Data) == 0 {
		return nil, fmt.Errorf("%w: %s requires a list payload", ErrData, e.Cmd)
	}
	var items []string
	if err := decMode.Unmarshal(e.Data, &items); err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (e envelope) unit() error {
	if len(e.Data) == 0 || (len(e.Data) == 1 && e.Data[0] == cborNull) {
		return nil
	}
	return fmt.Errorf("%w: %s takes no payload", ErrData, e.Cmd)
}

// classify maps a decoder error onto the codec taxonomy. Grammar problems and
// invalid UTF-8 in text strings are syntax; anything else is a shape problem.
func classify(err error) error {
	var syntaxErr *cbor.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	var semanticErr *cbor.SemanticError
	if errors.As(err, &semanticErr) && strings.Contains(semanticErr.Error(), "UTF-8") {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return fmt.Errorf("%w: %v", ErrData, err)
}
