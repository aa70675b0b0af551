package core

import (
	"fmt"
	"time"
)

// Message is a routed chat message. It is constructed on an inbound message
// event, emitted once, and never retained afterwards.
type Message struct {
	ID      string         `json:"id"`
	User    *User          `json:"user"`
	Text    string         `json:"text"`
	Meta    map[string]any `json:"meta,omitempty"`
	ReplyTo string         `json:"replyTo,omitempty"`
	Room    string         `json:"room,omitempty"`
	TS      time.Time      `json:"ts"`
	ReadBy  []string       `json:"readBy"`
}

// PrivateMessage is a peer-addressed message with exactly one recipient.
type PrivateMessage struct {
	ID   string         `json:"id"`
	From *User          `json:"from"`
	To   string         `json:"to"`
	Text string         `json:"text"`
	Meta map[string]any `json:"meta,omitempty"`
	TS   time.Time      `json:"ts"`
}

// RoomDescriptor announces a newly created room. Members is a snapshot at
// creation time and is not kept in sync afterwards; the live membership set
// belongs to the transport's room index.
type RoomDescriptor struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	CreatedBy string    `json:"createdBy"`
	IsPrivate bool      `json:"isPrivate"`
	CreatedAt time.Time `json:"createdAt"`
	Members   []string  `json:"members"`
}

// MessageID derives a message id from the origin connection and timestamp.
// Collisions within one clock tick on the same connection are acceptable
// since messages are neither persisted nor deduplicated.
func MessageID(connID string, ts time.Time) string {
	return fmt.Sprintf("%s-%d", connID, ts.UnixMilli())
}
