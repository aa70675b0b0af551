package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/core"
)

// FacadeHandlers exposes the hub's query and send operations over REST.
// Sends are fire-and-forget: acceptance means handed to the transport, not
// delivered.
type FacadeHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewFacadeHandlers creates the REST facade.
func NewFacadeHandlers(hub *core.Hub, logger *zerolog.Logger) *FacadeHandlers {
	return &FacadeHandlers{hub: hub, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendRequest is the body for the imperative send endpoints.
type SendRequest struct {
	Event string `json:"event" binding:"required"`
	Data  any    `json:"data"`
}

// UsersResponse lists active users.
type UsersResponse struct {
	Users []*core.User `json:"users"`
	Count int          `json:"count"`
}

// RoomsResponse lists known room names.
type RoomsResponse struct {
	Rooms []string `json:"rooms"`
}

// RoomUsersResponse lists the connection ids in one room.
type RoomUsersResponse struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// ListUsers handles GET /users.
func (h *FacadeHandlers) ListUsers(c *gin.Context) {
	users := h.hub.ActiveUsers()
	c.JSON(http.StatusOK, UsersResponse{Users: users, Count: len(users)})
}

// GetUser handles GET /users/:id.
func (h *FacadeHandlers) GetUser(c *gin.Context) {
	u, ok := h.hub.FindUser(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListRooms handles GET /rooms.
func (h *FacadeHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, RoomsResponse{Rooms: h.hub.RoomNames()})
}

// RoomUsers handles GET /rooms/:room/users.
func (h *FacadeHandlers) RoomUsers(c *gin.Context) {
	room := c.Param("room")
	c.JSON(http.StatusOK, RoomUsersResponse{Room: room, Users: h.hub.RoomMembers(room)})
}

// SendToRoom handles POST /rooms/:room/send.
func (h *FacadeHandlers) SendToRoom(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.hub.SendToRoom(c.Request.Context(), c.Param("room"), req.Event, req.Data)
	c.Status(http.StatusAccepted)
}

// SendToUser handles POST /users/:id/send.
func (h *FacadeHandlers) SendToUser(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.hub.SendToUser(c.Request.Context(), c.Param("id"), req.Event, req.Data)
	c.Status(http.StatusAccepted)
}

// Broadcast handles POST /broadcast.
func (h *FacadeHandlers) Broadcast(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.hub.Broadcast(c.Request.Context(), req.Event, req.Data)
	c.Status(http.StatusAccepted)
}
