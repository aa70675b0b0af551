package core

import (
	"context"

	"github.com/sockline/sockline-server/internal/fanout"
)

// Query and send operations exposed to embedding callers (REST layer, cli).
// All of them are safe to call concurrently with the hub loop: queries read
// lock-guarded snapshots, sends are fire-and-forget emissions that report no
// delivery confirmation.

// ActiveUsers returns a snapshot of everyone currently online.
func (h *Hub) ActiveUsers() []*User {
	return h.registry.List()
}

// FindUser returns the presence record for a connection id.
func (h *Hub) FindUser(connID string) (*User, bool) {
	return h.registry.Get(connID)
}

// RoomNames lists rooms with at least one local member. Empty, never nil,
// when the index has no entries yet.
func (h *Hub) RoomNames() []string {
	names := h.rooms.names()
	if names == nil {
		return []string{}
	}
	return names
}

// RoomMembers lists the connection ids joined to room. Unknown rooms yield
// an empty result rather than an error.
func (h *Hub) RoomMembers(room string) []string {
	return h.rooms.memberIDs(room)
}

// SendToRoom emits an arbitrary event to every member of room, here and on
// every other process.
func (h *Hub) SendToRoom(ctx context.Context, room, event string, data any) {
	h.emit(ctx, fanout.ScopeRoom, room, "", "", event, data)
}

// SendToUser emits an arbitrary event to a single connection id. Silent
// no-op when the id is not connected anywhere.
func (h *Hub) SendToUser(ctx context.Context, connID, event string, data any) {
	h.emit(ctx, fanout.ScopeUser, "", connID, "", event, data)
}

// Broadcast emits an arbitrary event to every connection everywhere.
func (h *Hub) Broadcast(ctx context.Context, event string, data any) {
	h.emit(ctx, fanout.ScopeGlobal, "", "", "", event, data)
}
