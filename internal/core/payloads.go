package core

import "time"

// Outbound payload shapes built by the hub. The event names they travel
// under live in the proto package.

// UsersList is the presence snapshot sent to a freshly joined connection.
type UsersList struct {
	Users []*User `json:"users"`
	Count int     `json:"count"`
}

// UserLeft announces a departed connection with its last-known identity.
type UserLeft struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Reason string    `json:"reason,omitempty"`
	TS     time.Time `json:"ts"`
}

// TypingNotice announces composing state for a user, optionally room-scoped.
type TypingNotice struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Room string    `json:"room,omitempty"`
	TS   time.Time `json:"ts"`
}

// ReadReceipt acknowledges a message on behalf of a connection.
type ReadReceipt struct {
	MessageID string    `json:"messageId"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Room      string    `json:"room,omitempty"`
	TS        time.Time `json:"ts"`
}

// StatusChanged announces a presence status transition.
type StatusChanged struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Status   Status    `json:"status"`
	LastSeen time.Time `json:"lastSeen"`
}

// RoomAck confirms a join/leave back to the acting connection.
type RoomAck struct {
	Room string `json:"room"`
}

// RoomMember announces a membership change to the rest of the room.
type RoomMember struct {
	Room string `json:"room"`
	ID   string `json:"id"`
	Name string `json:"name"`
}
