// Package proto defines the JSON wire protocol spoken over the socket
// transport: an envelope with a type tag plus typed payloads for inbound
// requests. Outbound payloads are the core's own model types.
package proto

import "encoding/json"

// ProtocolVersion is bumped on incompatible envelope changes.
const ProtocolVersion = 1

// Inbound event names.
const (
	InUserJoin       = "user:join"
	InJoinRoom       = "join"
	InLeaveRoom      = "leave"
	InMessage        = "message"
	InTypingStart    = "typing:start"
	InTypingStop     = "typing:stop"
	InMessageRead    = "message:read"
	InUserStatus     = "user:status"
	InPrivateMessage = "message:private"
	InRoomCreate     = "room:create"
)

// Outbound event names.
const (
	OutUserJoined     = "user:joined"
	OutUsersList      = "users:list"
	OutUserLeft       = "user:left"
	OutMessage        = "message"
	OutTypingStart    = "typing:start"
	OutTypingStop     = "typing:stop"
	OutMessageRead    = "message:read"
	OutStatusChanged  = "user:status_changed"
	OutPrivateMessage = "message:private"
	OutRoomCreated    = "room:created"
	OutRoomJoined     = "room:joined"
	OutRoomLeft       = "room:left"
	OutUserJoinedRoom = "user:joined_room"
	OutUserLeftRoom   = "user:left_room"
	OutError          = "error"
)

// Inbound is the envelope for events coming from a client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for events sent to a client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// JoinData carries the user profile of a user:join event.
type JoinData struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Status string `json:"status,omitempty"`
}

// RoomData addresses a join/leave/typing event at a room. Room may be empty
// for typing events, which then broadcast globally.
type RoomData struct {
	Room string `json:"room,omitempty"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	Room    string         `json:"room,omitempty"`
	Text    string         `json:"text"`
	Meta    map[string]any `json:"meta,omitempty"`
	ReplyTo string         `json:"replyTo,omitempty"`
}

// ReadData acknowledges a message.
type ReadData struct {
	MessageID string `json:"messageId"`
	Room      string `json:"room,omitempty"`
}

// StatusData changes the sender's presence status.
type StatusData struct {
	Status string `json:"status"`
}

// PrivateData is a peer-addressed message.
type PrivateData struct {
	ToUserID string         `json:"toUserId"`
	Text     string         `json:"text"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// CreateRoomData announces a new room.
type CreateRoomData struct {
	RoomName  string `json:"roomName"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}
