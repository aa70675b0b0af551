package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/core"
)

// Hook gates new socket connections on a valid token. It satisfies
// core.Hooks, so the hub runs it before any event from the connection is
// dispatched; a failed check refuses the connection outright.
type Hook struct {
	cfg *Config
	log *zerolog.Logger
}

// NewHook builds the connection gate for cfg.
func NewHook(cfg *Config, logger *zerolog.Logger) *Hook {
	return &Hook{cfg: cfg, log: logger}
}

// Authenticate validates the handshake token.
func (h *Hook) Authenticate(_ context.Context, conn core.ConnContext) error {
	if conn.Token == "" {
		return fmt.Errorf("missing token: %w", core.ErrUnauthorized)
	}
	if _, err := ValidateToken(h.cfg, conn.Token); err != nil {
		h.log.Debug().Err(err).Str("conn", conn.ConnID).Msg("connection refused")
		return fmt.Errorf("%v: %w", err, core.ErrUnauthorized)
	}
	return nil
}

// OnActive logs the join transition.
func (h *Hook) OnActive(_ context.Context, user *core.User) {
	h.log.Debug().Str("conn", user.ID).Str("name", user.Name).Msg("session active")
}

// OnTerminated logs the teardown. user is nil when the connection never
// completed a join.
func (h *Hook) OnTerminated(_ context.Context, connID string, user *core.User) {
	e := h.log.Debug().Str("conn", connID)
	if user != nil {
		e = e.Str("name", user.Name)
	}
	e.Msg("session terminated")
}
