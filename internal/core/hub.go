// Package core implements the presence and routing engine: the registry of
// connected users, room membership, typing state, and the rules that decide
// which peers receive each event. Transports and the pub/sub fabric stay
// behind small interfaces at the edges.
package core

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/fanout"
	"github.com/sockline/sockline-server/internal/proto"
)

// Options are the feature toggles evaluated once at hub construction.
// Disabled features never bind a handler, so their inbound events are
// dropped without acknowledgment or error.
type Options struct {
	EnableTyping       bool
	EnableReadReceipts bool
	TypingTimeout      time.Duration
}

type inboundCmd struct {
	client *Client
	cmd    *Command
}

type disconnect struct {
	client *Client
	reason string
}

type handlerFunc func(ctx context.Context, c *Client, cmd *Command)

// Hub drives every connection through its lifecycle and routes events among
// peers. A single goroutine (Run) serializes all state transitions; the
// facade methods only read, so they are safe concurrently with the loop.
type Hub struct {
	origin   string
	registry *Registry
	typing   *TypingTracker
	rooms    *roomIndex
	bus      fanout.Bus
	hooks    Hooks
	log      *zerolog.Logger
	opts     Options

	mu      sync.RWMutex
	clients map[string]*Client

	inbound    chan inboundCmd
	disconnect chan disconnect
	stopped    chan struct{}

	handlers map[CommandKind]handlerFunc
}

// NewHub constructs a hub. Nil collaborators fall back to in-process
// defaults (fresh registry, in-memory bus, no-op hooks, silent logger),
// which is what the tests rely on.
func NewHub(registry *Registry, bus fanout.Bus, hooks Hooks, logger *zerolog.Logger, opts Options) *Hub {
	if registry == nil {
		registry = NewRegistry()
	}
	if bus == nil {
		bus = fanout.NewMemory()
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	h := &Hub{
		origin:     uuid.NewString(),
		registry:   registry,
		typing:     NewTypingTracker(opts.TypingTimeout),
		rooms:      newRoomIndex(),
		bus:        bus,
		hooks:      hooks,
		log:        logger,
		opts:       opts,
		clients:    make(map[string]*Client),
		inbound:    make(chan inboundCmd, 64),
		disconnect: make(chan disconnect, 16),
		stopped:    make(chan struct{}),
	}

	h.handlers = map[CommandKind]handlerFunc{
		CommandJoin:           h.handleJoin,
		CommandJoinRoom:       h.handleJoinRoom,
		CommandLeaveRoom:      h.handleLeaveRoom,
		CommandMessage:        h.handleMessage,
		CommandSetStatus:      h.handleSetStatus,
		CommandPrivateMessage: h.handlePrivateMessage,
		CommandCreateRoom:     h.handleCreateRoom,
	}
	if opts.EnableTyping {
		h.handlers[CommandTypingStart] = h.handleTypingStart
		h.handlers[CommandTypingStop] = h.handleTypingStop
	}
	if opts.EnableReadReceipts {
		h.handlers[CommandMarkRead] = h.handleMarkRead
	}

	return h
}

// Origin identifies this hub instance on the fan-out fabric.
func (h *Hub) Origin() string {
	return h.origin
}

// Authenticate runs the configured pre-dispatch hook for a connection.
func (h *Hub) Authenticate(ctx context.Context, conn ConnContext) error {
	return h.hooks.Authenticate(ctx, conn)
}

// RegisterClient admits an authenticated connection and starts pumping its
// commands into the hub loop. The connection stays unauthenticated as a user
// until its first join event.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	go h.pump(c)
}

// UnregisterClient tears the connection down: presence record removed,
// typing entries cleared, departure broadcast if the user had joined. The
// transition is terminal for this connection id.
func (h *Hub) UnregisterClient(c *Client, reason string) {
	select {
	case h.disconnect <- disconnect{client: c, reason: reason}:
	case <-h.stopped:
	}
}

// Run processes lifecycle transitions and inbound commands until ctx is
// cancelled. Exactly one Run per hub.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-h.disconnect:
			h.handleDisconnect(ctx, d.client, d.reason)
		case in := <-h.inbound:
			h.dispatch(ctx, in.client, in.cmd)
		}
	}
}

func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		select {
		case h.inbound <- inboundCmd{client: c, cmd: cmd}:
		case <-h.stopped:
			return
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	h.mu.RLock()
	current, ok := h.clients[c.ID]
	h.mu.RUnlock()
	if !ok || current != c {
		// Command raced with disconnect.
		return
	}

	fn, ok := h.handlers[cmd.Kind]
	if !ok {
		h.log.Debug().Int("kind", int(cmd.Kind)).Str("conn", c.ID).Msg("unbound command dropped")
		return
	}
	fn(ctx, c, cmd)
}

func (h *Hub) handleDisconnect(ctx context.Context, c *Client, reason string) {
	h.mu.Lock()
	current, ok := h.clients[c.ID]
	if !ok || current != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	h.mu.Unlock()

	h.rooms.removeAll(c)
	h.typing.ClearConn(c.ID)

	u, existed := h.registry.Unregister(c.ID)
	if existed {
		h.emit(ctx, fanout.ScopeGlobal, "", "", c.ID, proto.OutUserLeft, UserLeft{
			ID:     c.ID,
			Name:   u.Name,
			Reason: reason,
			TS:     time.Now(),
		})
		h.log.Info().Str("conn", c.ID).Str("name", u.Name).Str("reason", reason).Msg("user left")
	}

	h.hooks.OnTerminated(ctx, c.ID, u)
}

func (h *Hub) handleJoin(ctx context.Context, c *Client, cmd *Command) {
	u := h.registry.Register(c.ID, cmd.Profile)

	// Others first, then the snapshot reply; the snapshot is taken after
	// registration so it always contains the joiner itself.
	h.emit(ctx, fanout.ScopeGlobal, "", "", c.ID, proto.OutUserJoined, u)

	users := h.registry.List()
	h.sendDirect(c, &proto.Outbound{Event: proto.OutUsersList, Data: UsersList{
		Users: users,
		Count: len(users),
	}})

	h.log.Info().Str("conn", c.ID).Str("name", u.Name).Msg("user joined")
	h.hooks.OnActive(ctx, u)
}

func (h *Hub) handleJoinRoom(ctx context.Context, c *Client, cmd *Command) {
	h.rooms.add(cmd.Room, c)
	h.sendDirect(c, &proto.Outbound{Event: proto.OutRoomJoined, Data: RoomAck{Room: cmd.Room}})

	h.emit(ctx, fanout.ScopeRoom, cmd.Room, "", c.ID, proto.OutUserJoinedRoom, RoomMember{
		Room: cmd.Room,
		ID:   c.ID,
		Name: h.displayName(c.ID),
	})
}

func (h *Hub) handleLeaveRoom(ctx context.Context, c *Client, cmd *Command) {
	h.rooms.remove(cmd.Room, c)
	h.sendDirect(c, &proto.Outbound{Event: proto.OutRoomLeft, Data: RoomAck{Room: cmd.Room}})

	h.emit(ctx, fanout.ScopeRoom, cmd.Room, "", c.ID, proto.OutUserLeftRoom, RoomMember{
		Room: cmd.Room,
		ID:   c.ID,
		Name: h.displayName(c.ID),
	})
}

func (h *Hub) handleMessage(ctx context.Context, c *Client, cmd *Command) {
	h.registry.Touch(c.ID)

	now := time.Now()
	msg := &Message{
		ID:      MessageID(c.ID, now),
		User:    h.senderSnapshot(c.ID),
		Text:    cmd.Text,
		Meta:    cmd.Meta,
		ReplyTo: cmd.ReplyTo,
		Room:    cmd.Room,
		TS:      now,
		ReadBy:  []string{c.ID},
	}

	if cmd.Room != "" {
		// Room addressing wins; the sender receives its own message when
		// it is a member of the room.
		h.emit(ctx, fanout.ScopeRoom, cmd.Room, "", "", proto.OutMessage, msg)
		return
	}
	h.emit(ctx, fanout.ScopeGlobal, "", "", c.ID, proto.OutMessage, msg)
}

func (h *Hub) handleTypingStart(ctx context.Context, c *Client, cmd *Command) {
	h.typing.Start(c.ID, cmd.Room)
	h.emitTyping(ctx, c, cmd.Room, proto.OutTypingStart)
}

func (h *Hub) handleTypingStop(ctx context.Context, c *Client, cmd *Command) {
	h.typing.Stop(c.ID, cmd.Room)
	h.emitTyping(ctx, c, cmd.Room, proto.OutTypingStop)
}

func (h *Hub) emitTyping(ctx context.Context, c *Client, room, event string) {
	notice := TypingNotice{
		ID:   c.ID,
		Name: h.displayName(c.ID),
		Room: room,
		TS:   time.Now(),
	}
	if room != "" {
		h.emit(ctx, fanout.ScopeRoom, room, "", c.ID, event, notice)
		return
	}
	h.emit(ctx, fanout.ScopeGlobal, "", "", c.ID, event, notice)
}

func (h *Hub) handleMarkRead(ctx context.Context, c *Client, cmd *Command) {
	receipt := ReadReceipt{
		MessageID: cmd.MessageID,
		ID:        c.ID,
		Name:      h.displayName(c.ID),
		Room:      cmd.Room,
		TS:        time.Now(),
	}
	if cmd.Room != "" {
		// Room receipts go to the whole room, the acknowledging connection
		// included. Every other room-scoped event excludes the sender; this
		// one keeps the historical asymmetry.
		h.emit(ctx, fanout.ScopeRoom, cmd.Room, "", "", proto.OutMessageRead, receipt)
		return
	}
	h.emit(ctx, fanout.ScopeGlobal, "", "", c.ID, proto.OutMessageRead, receipt)
}

func (h *Hub) handleSetStatus(ctx context.Context, c *Client, cmd *Command) {
	u, ok := h.registry.SetStatus(c.ID, cmd.Status)
	if !ok {
		return
	}
	h.emit(ctx, fanout.ScopeGlobal, "", "", c.ID, proto.OutStatusChanged, StatusChanged{
		ID:       c.ID,
		Name:     u.Name,
		Status:   u.Status,
		LastSeen: u.LastSeen,
	})
}

func (h *Hub) handlePrivateMessage(ctx context.Context, c *Client, cmd *Command) {
	h.registry.Touch(c.ID)

	now := time.Now()
	pm := &PrivateMessage{
		ID:   MessageID(c.ID, now),
		From: h.senderSnapshot(c.ID),
		To:   cmd.To,
		Text: cmd.Text,
		Meta: cmd.Meta,
		TS:   now,
	}

	// Echo back to the sender as the send confirmation, then best-effort
	// delivery to the target. An unknown target id is silently dropped.
	h.sendDirect(c, &proto.Outbound{Event: proto.OutPrivateMessage, Data: pm})

	h.mu.RLock()
	target, ok := h.clients[cmd.To]
	h.mu.RUnlock()
	if ok {
		h.sendDirect(target, &proto.Outbound{Event: proto.OutPrivateMessage, Data: pm})
	}
	h.publish(ctx, fanout.ScopeUser, "", cmd.To, "", proto.OutPrivateMessage, pm)
}

func (h *Hub) handleCreateRoom(ctx context.Context, c *Client, cmd *Command) {
	h.rooms.add(cmd.Room, c)

	desc := &RoomDescriptor{
		Name:      cmd.Room,
		ID:        uuid.NewString(),
		CreatedBy: c.ID,
		IsPrivate: cmd.IsPrivate,
		CreatedAt: time.Now(),
		Members:   h.rooms.memberIDs(cmd.Room),
	}

	// Announcements go to everyone, members or not, so the room can be
	// discovered and joined.
	h.emit(ctx, fanout.ScopeGlobal, "", "", "", proto.OutRoomCreated, desc)
	h.log.Info().Str("room", cmd.Room).Str("creator", c.ID).Msg("room created")
}

// HandleFanout delivers an envelope published by another process to the
// local peers it addresses. Own publications echo back and are skipped.
func (h *Hub) HandleFanout(env *fanout.Envelope) {
	if env.Origin == h.origin {
		return
	}
	h.deliverLocal(env.Scope, env.Room, env.Target, env.Exclude, &proto.Outbound{
		Event: env.Event,
		Data:  env.Data,
	})
}

// emit delivers to local peers and replicates via the fan-out fabric.
func (h *Hub) emit(ctx context.Context, scope fanout.Scope, room, target, exclude, event string, data any) {
	h.deliverLocal(scope, room, target, exclude, &proto.Outbound{Event: event, Data: data})
	h.publish(ctx, scope, room, target, exclude, event, data)
}

func (h *Hub) publish(ctx context.Context, scope fanout.Scope, room, target, exclude, event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Warn().Err(err).Str("event", event).Msg("marshal fanout payload")
		return
	}
	env := &fanout.Envelope{
		Origin:  h.origin,
		Scope:   scope,
		Room:    room,
		Target:  target,
		Exclude: exclude,
		Event:   event,
		Data:    raw,
		TS:      time.Now(),
	}
	// Lost publications are lost messages, not failures to recover from.
	if err := h.bus.Publish(ctx, env); err != nil {
		h.log.Warn().Err(err).Str("event", event).Msg("fanout publish failed")
	}
}

func (h *Hub) deliverLocal(scope fanout.Scope, room, target, exclude string, out *proto.Outbound) {
	switch scope {
	case fanout.ScopeGlobal:
		h.mu.RLock()
		clients := make([]*Client, 0, len(h.clients))
		for _, c := range h.clients {
			clients = append(clients, c)
		}
		h.mu.RUnlock()
		for _, c := range clients {
			if c.ID == exclude {
				continue
			}
			h.sendDirect(c, out)
		}
	case fanout.ScopeRoom:
		for _, c := range h.rooms.members(room) {
			if c.ID == exclude {
				continue
			}
			h.sendDirect(c, out)
		}
	case fanout.ScopeUser:
		h.mu.RLock()
		c, ok := h.clients[target]
		h.mu.RUnlock()
		if ok {
			h.sendDirect(c, out)
		}
	}
}

// sendDirect enqueues without blocking; slow consumers drop.
func (h *Hub) sendDirect(c *Client, out *proto.Outbound) {
	select {
	case c.Events <- out:
	default:
		h.log.Warn().Str("conn", c.ID).Str("event", out.Event).Msg("event dropped, slow consumer")
	}
}

// senderSnapshot returns the sender's presence record, or the minimal
// placeholder when the connection never joined.
func (h *Hub) senderSnapshot(connID string) *User {
	if u, ok := h.registry.Get(connID); ok {
		return u
	}
	return Placeholder(connID)
}

func (h *Hub) displayName(connID string) string {
	if u, ok := h.registry.Get(connID); ok {
		return u.Name
	}
	return connID
}
