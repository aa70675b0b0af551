package core

import (
	"sync"
	"time"
)

type typingKey struct {
	conn string
	room string
}

type typingEntry struct {
	started  time.Time
	deadline time.Time // zero when no timeout is configured
}

// TypingTracker holds ephemeral per-(connection,room) composition markers.
// Entries are created by typing:start, removed by typing:stop or disconnect.
// A configured timeout stamps a deadline that is checked lazily on reads; no
// timer fires, so an expired entry never produces a stop broadcast on its own.
type TypingTracker struct {
	mu      sync.Mutex
	timeout time.Duration
	entries map[typingKey]typingEntry
	now     func() time.Time
}

// NewTypingTracker constructs a tracker. A zero timeout disables expiry.
func NewTypingTracker(timeout time.Duration) *TypingTracker {
	return &TypingTracker{
		timeout: timeout,
		entries: make(map[typingKey]typingEntry),
		now:     time.Now,
	}
}

// Start creates or refreshes the entry for (conn, room).
func (t *TypingTracker) Start(conn, room string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e := typingEntry{started: now}
	if t.timeout > 0 {
		e.deadline = now.Add(t.timeout)
	}
	t.entries[typingKey{conn: conn, room: room}] = e
}

// Stop removes the entry for (conn, room). Returns true if one existed.
func (t *TypingTracker) Stop(conn, room string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := typingKey{conn: conn, room: room}
	if _, ok := t.entries[k]; !ok {
		return false
	}
	delete(t.entries, k)
	return true
}

// ClearConn removes every entry for conn across all rooms and returns how
// many were removed. Safe to call for connections that never typed.
func (t *TypingTracker) ClearConn(conn string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for k := range t.entries {
		if k.conn == conn {
			delete(t.entries, k)
			removed++
		}
	}
	return removed
}

// Active reports whether (conn, room) has a live, unexpired entry. Expired
// entries are reaped on the way out.
func (t *TypingTracker) Active(conn, room string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := typingKey{conn: conn, room: room}
	e, ok := t.entries[k]
	if !ok {
		return false
	}
	if !e.deadline.IsZero() && t.now().After(e.deadline) {
		delete(t.entries, k)
		return false
	}
	return true
}

// ActiveIn returns the connection ids with a live entry for room.
func (t *TypingTracker) ActiveIn(room string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var conns []string
	for k, e := range t.entries {
		if k.room != room {
			continue
		}
		if !e.deadline.IsZero() && now.After(e.deadline) {
			delete(t.entries, k)
			continue
		}
		conns = append(conns, k.conn)
	}
	return conns
}
