package codec

import "fmt"

// Command is a client request. The set of implementations is closed:
// NickNameCommand, ListCommand, JoinCommand, MessageCommand and PingCommand.
type Command interface {
	commandTag() string
	payload() any
}

// NickNameCommand asks the server to record a display name for the connection.
type NickNameCommand struct {
	Name string
}

// ListCommand asks for the names of all rooms.
type ListCommand struct{}

// JoinCommand moves the connection into Room, creating it if needed.
type JoinCommand struct {
	Room string
}

// MessageCommand sends Text to the other members of the current room.
type MessageCommand struct {
	Text string
}

// PingCommand is a keepalive; the server answers with PingResponse.
type PingCommand struct{}

const (
	tagNickName    = "NickName"
	tagList        = "List"
	tagJoin        = "Join"
	tagMessage     = "Message"
	tagPing        = "Ping"
	tagRooms       = "Rooms"
	tagJoined      = "Joined"
	tagSetNickName = "SetNickName"
)

func (NickNameCommand) commandTag() string { return tagNickName }
func (ListCommand) commandTag() string     { return tagList }
func (JoinCommand) commandTag() string     { return tagJoin }
func (MessageCommand) commandTag() string  { return tagMessage }
func (PingCommand) commandTag() string     { return tagPing }

func (c NickNameCommand) payload() any { return c.Name }
func (ListCommand) payload() any       { return nil }
func (c JoinCommand) payload() any     { return c.Room }
func (c MessageCommand) payload() any  { return c.Text }
func (PingCommand) payload() any       { return nil }

func parseCommand(p []byte) (Command, error) {
	env, err := unmarshalEnvelope(p)
	if err != nil {
		return nil, err
	}

	switch env.Cmd {
	case tagNickName:
		s, err := env.text()
		return NickNameCommand{Name: s}, err
	case tagList:
		return ListCommand{}, env.unit()
	case tagJoin:
		s, err := env.text()
		return JoinCommand{Room: s}, err
	case tagMessage:
		s, err := env.text()
		return MessageCommand{Text: s}, err
	case tagPing:
		return PingCommand{}, env.unit()
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrData, env.Cmd)
	}
}
