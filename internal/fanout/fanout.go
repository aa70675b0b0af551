// Package fanout replicates locally emitted events to every server process
// so each can deliver them to its own connected peers. Delivery is
// at-least-once with per-origin ordering; consumers must tolerate their own
// publications echoing back (envelopes are origin-tagged for that).
package fanout

import (
	"context"
	"encoding/json"
	"time"
)

// Scope selects the peer set an envelope addresses.
type Scope string

const (
	// ScopeGlobal targets every connection, minus an optional exclusion.
	ScopeGlobal Scope = "global"
	// ScopeRoom targets the members of Room, minus an optional exclusion.
	ScopeRoom Scope = "room"
	// ScopeUser targets the single connection whose id equals Target.
	ScopeUser Scope = "user"
)

// Envelope is one routed emission. Exclude names a connection id to skip;
// since ids are process-local it only ever matches on the origin process,
// which lets remote processes apply the same rule uniformly.
type Envelope struct {
	Origin  string          `json:"origin"`
	Scope   Scope           `json:"scope"`
	Room    string          `json:"room,omitempty"`
	Target  string          `json:"target,omitempty"`
	Exclude string          `json:"exclude,omitempty"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
	TS      time.Time       `json:"ts"`
}

// Handler consumes envelopes delivered by a subscription.
type Handler func(*Envelope)

// Bus is the pub/sub fabric. Publish is best-effort: once it returns nil the
// envelope is considered sent, and transient downstream loss is not retried.
type Bus interface {
	Publish(ctx context.Context, env *Envelope) error
	Subscribe(ctx context.Context, fn Handler) error
	Close() error
}
