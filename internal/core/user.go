package core

import "time"

// Status is a user's self-reported presence state.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusBusy    Status = "busy"
	StatusOffline Status = "offline"
)

// Profile carries the user-supplied fields of a join event. All fields are
// optional; missing ones are defaulted from the connection id.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Status Status `json:"status,omitempty"`
}

// User is the presence record for one live connection. There is exactly one
// per connected session that has completed its join; the record never
// outlives the connection.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Status      Status    `json:"status,omitempty"`
	ConnectedAt time.Time `json:"connectedAt"`
	LastSeen    time.Time `json:"lastSeen"`
}

// Placeholder returns the minimal identity used for connections that send
// events before ever joining.
func Placeholder(connID string) *User {
	return &User{ID: connID, Name: connID}
}
