package core

import (
	"sync"
	"time"
)

// Registry is the authoritative map of connection id to presence record. It
// is the only structure shared across all connections in a process, so every
// mutation runs under a single lock; reads hand out copies.
type Registry struct {
	mu    sync.Mutex
	users map[string]*User
	now   func() time.Time
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*User),
		now:   time.Now,
	}
}

// Register creates (or overwrites) the record for connID from the supplied
// profile. Missing name/email are defaulted from the connection id; no other
// validation is performed.
func (r *Registry) Register(connID string, p Profile) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	u := &User{
		ID:          connID,
		Name:        p.Name,
		Email:       p.Email,
		Avatar:      p.Avatar,
		Status:      p.Status,
		ConnectedAt: now,
		LastSeen:    now,
	}
	if u.Name == "" {
		u.Name = connID
	}
	if u.Email == "" {
		u.Email = connID + "@anonymous.local"
	}
	if u.Status == "" {
		u.Status = StatusOnline
	}
	if prev, ok := r.users[connID]; ok {
		// Re-join on the same connection keeps the original connect time.
		u.ConnectedAt = prev.ConnectedAt
	}
	r.users[connID] = u

	out := *u
	return &out
}

// Unregister removes and returns the record for connID. The boolean reports
// whether a record existed, which callers use to decide whether a departure
// broadcast is due.
func (r *Registry) Unregister(connID string) (*User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[connID]
	if !ok {
		return nil, false
	}
	delete(r.users, connID)
	out := *u
	return &out, true
}

// Touch bumps LastSeen for connID. No-op when the connection has no record.
func (r *Registry) Touch(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[connID]; ok {
		u.LastSeen = r.now()
	}
}

// SetStatus updates the status and LastSeen for connID and returns the
// updated record. The boolean is false when no record exists.
func (r *Registry) SetStatus(connID string, status Status) (*User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[connID]
	if !ok {
		return nil, false
	}
	u.Status = status
	u.LastSeen = r.now()
	out := *u
	return &out, true
}

// Get returns a copy of the record for connID.
func (r *Registry) Get(connID string) (*User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[connID]
	if !ok {
		return nil, false
	}
	out := *u
	return &out, true
}

// List returns a snapshot of all records. Order is unspecified.
func (r *Registry) List() []*User {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out := *u
		users = append(users, &out)
	}
	return users
}

// Len reports the number of registered users.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
