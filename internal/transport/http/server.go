package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/auth"
	"github.com/sockline/sockline-server/internal/config"
	"github.com/sockline/sockline-server/internal/core"
)

// NewServer builds the HTTP server: health endpoint, socket upgrade, and the
// REST facade under the configured prefix.
func NewServer(hub *core.Hub, authCfg *auth.Config, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/healthz", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	api := router.Group(cfg.APIPrefix)
	api.Use(CORSMiddleware(cfg.APIAllowedOrigins))
	if cfg.APIAuthRequired && authCfg.Enabled() {
		api.Use(AuthMiddleware(authCfg, logger))
	}

	fh := NewFacadeHandlers(hub, logger)
	api.GET("/users", fh.ListUsers)
	api.GET("/users/:id", fh.GetUser)
	api.GET("/rooms", fh.ListRooms)
	api.GET("/rooms/:room/users", fh.RoomUsers)
	api.POST("/rooms/:room/send", fh.SendToRoom)
	api.POST("/users/:id/send", fh.SendToUser)
	api.POST("/broadcast", fh.Broadcast)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
