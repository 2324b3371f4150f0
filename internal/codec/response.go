package codec

import "fmt"

// Response is a server message. The set of implementations is closed:
// PingResponse, RoomsResponse, JoinedResponse, MessageResponse and
// SetNickNameResponse.
type Response interface {
	responseTag() string
	payload() any
}

// PingResponse answers PingCommand.
type PingResponse struct{}

// RoomsResponse lists room names.
type RoomsResponse struct {
	Rooms []string
}

// JoinedResponse confirms a JoinCommand.
type JoinedResponse struct {
	Room string
}

// MessageResponse carries text broadcast by another member of the room.
type MessageResponse struct {
	Text string
}

// SetNickNameResponse confirms a NickNameCommand.
type SetNickNameResponse struct {
	Name string
}

func (PingResponse) responseTag() string        { return tagPing }
func (RoomsResponse) responseTag() string       { return tagRooms }
func (JoinedResponse) responseTag() string      { return tagJoined }
func (MessageResponse) responseTag() string     { return tagMessage }
func (SetNickNameResponse) responseTag() string { return tagSetNickName }

func (PingResponse) payload() any          { return nil }
func (r RoomsResponse) payload() any       { return r.Rooms }
func (r JoinedResponse) payload() any      { return r.Room }
func (r MessageResponse) payload() any     { return r.Text }
func (r SetNickNameResponse) payload() any { return r.Name }

func parseResponse(p []byte) (Response, error) {
	env, err := unmarshalEnvelope(p)
	if err != nil {
		return nil, err
	}

	switch env.Cmd {
	case tagPing:
		return PingResponse{}, env.unit()
	case tagRooms:
		rooms, err := env.list()
		return RoomsResponse{Rooms: rooms}, err
	case tagJoined:
		s, err := env.text()
		return JoinedResponse{Room: s}, err
	case tagMessage:
		s, err := env.text()
		return MessageResponse{Text: s}, err
	case tagSetNickName:
		s, err := env.text()
		return SetNickNameResponse{Name: s}, err
	default:
		return nil, fmt.Errorf("%w: unknown response %q", ErrData, env.Cmd)
	}
}
