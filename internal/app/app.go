// Package app wires configuration, the fan-out fabric, the hub, and the
// HTTP transport into a runnable server.
package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/auth"
	"github.com/sockline/sockline-server/internal/config"
	"github.com/sockline/sockline-server/internal/core"
	"github.com/sockline/sockline-server/internal/fanout"
	transporthttp "github.com/sockline/sockline-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	bus             fanout.Bus
	log             *zerolog.Logger
}

// New constructs the application with provided configuration. A redis
// connection failure is returned as an error: the server must not start
// accepting connections in an unreplicated state.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	var bus fanout.Bus
	if cfg.RedisAddr != "" {
		rb, err := fanout.NewRedis(ctx, cfg.RedisAddr, cfg.Namespace, logger)
		if err != nil {
			return nil, fmt.Errorf("init fanout: %w", err)
		}
		bus = rb
		logger.Info().Str("redis_addr", cfg.RedisAddr).Str("namespace", cfg.Namespace).Msg("fanout connected")
	} else {
		bus = fanout.NewMemory()
		logger.Info().Msg("no redis address configured, running single-node")
	}

	authCfg := &auth.Config{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      24 * time.Hour,
	}

	var hooks core.Hooks = core.NopHooks{}
	if authCfg.Enabled() {
		hooks = auth.NewHook(authCfg, logger)
	}

	hub := core.NewHub(core.NewRegistry(), bus, hooks, logger, core.Options{
		EnableTyping:       cfg.EnableTyping,
		EnableReadReceipts: cfg.EnableReadReceipts,
		TypingTimeout:      cfg.TypingTimeout,
	})

	server := transporthttp.NewServer(hub, authCfg, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		bus:             bus,
		log:             logger,
	}, nil
}

// Run starts the hub, the fan-out subscription, and the HTTP server, then
// blocks until context cancellation or a fatal error.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)

	if err := a.bus.Subscribe(ctx, a.hub.HandleFanout); err != nil {
		a.cleanup()
		return fmt.Errorf("subscribe fanout: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup releases the fan-out connection.
func (a *App) cleanup() {
	if err := a.bus.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close fanout bus")
	} else {
		a.log.Info().Msg("fanout bus closed")
	}
}
