package core

// CommandKind describes what an inbound event asks the hub to do.
type CommandKind int

const (
	// CommandJoin registers the connection's user profile (user:join).
	CommandJoin CommandKind = iota
	// CommandJoinRoom subscribes the connection to a room.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the connection from a room.
	CommandLeaveRoom
	// CommandMessage routes a chat message (room-addressed or global).
	CommandMessage
	// CommandTypingStart marks the connection as composing.
	CommandTypingStart
	// CommandTypingStop clears the composing marker.
	CommandTypingStop
	// CommandMarkRead acknowledges a message (read receipt).
	CommandMarkRead
	// CommandSetStatus changes the user's presence status.
	CommandSetStatus
	// CommandPrivateMessage delivers a message to a single peer.
	CommandPrivateMessage
	// CommandCreateRoom announces a new room and joins the creator.
	CommandCreateRoom
)

// Command is an action requested by a connection. Only the fields relevant
// to the kind are populated; the hub does not validate the rest.
type Command struct {
	Kind      CommandKind
	Profile   Profile        // CommandJoin
	Room      string         // room name, empty means unaddressed
	Text      string         // CommandMessage, CommandPrivateMessage
	Meta      map[string]any // CommandMessage, CommandPrivateMessage
	ReplyTo   string         // CommandMessage
	MessageID string         // CommandMarkRead
	Status    Status         // CommandSetStatus
	To        string         // CommandPrivateMessage target connection id
	IsPrivate bool           // CommandCreateRoom
}
