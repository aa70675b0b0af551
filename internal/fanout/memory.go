package fanout

import (
	"context"
	"sync"
)

// Memory is a process-local Bus used when no redis address is configured
// (single-node mode) and in tests. Publish invokes subscribers synchronously
// in registration order, so per-origin ordering holds trivially.
type Memory struct {
	mu       sync.Mutex
	handlers []Handler
	closed   bool
}

// NewMemory constructs an in-process bus.
func NewMemory() *Memory {
	return &Memory{}
}

// Publish delivers env to every subscriber.
func (m *Memory) Publish(_ context.Context, env *Envelope) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	handlers := make([]Handler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(env)
	}
	return nil
}

// Subscribe registers fn for future publications.
func (m *Memory) Subscribe(_ context.Context, fn Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
	return nil
}

// Close drops all subscribers.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.handlers = nil
	return nil
}
