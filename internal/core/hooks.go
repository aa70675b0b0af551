package core

import "context"

// ConnContext describes a connection at handshake time, before any event is
// dispatched. It carries what an auth hook needs without exposing the
// transport.
type ConnContext struct {
	ConnID     string
	RemoteAddr string
	Token      string
}

// Hooks is the extension point for an embedding application. Authenticate
// runs before a connection is admitted; returning an error refuses it.
// OnActive and OnTerminated run after the hub's own bookkeeping for the
// respective transition and must not assume they can veto it.
type Hooks interface {
	Authenticate(ctx context.Context, conn ConnContext) error
	OnActive(ctx context.Context, user *User)
	OnTerminated(ctx context.Context, connID string, user *User)
}

// NopHooks is the identity strategy used when no hooks are configured.
type NopHooks struct{}

func (NopHooks) Authenticate(context.Context, ConnContext) error { return nil }
func (NopHooks) OnActive(context.Context, *User)                 {}
func (NopHooks) OnTerminated(context.Context, string, *User)     {}
