package core

import "github.com/sockline/sockline-server/internal/proto"

// Client is one connection as seen by the hub. The transport feeds Commands
// and drains Events; the hub owns everything else about the connection.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *proto.Outbound
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 16),
		Events:   make(chan *proto.Outbound, 32),
	}
}
