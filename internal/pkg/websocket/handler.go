package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/models"
)

// RecipientFunc resolves who the current request belongs to. On error it
// must write the response itself.
type RecipientFunc func(c *gin.Context) (models.Recipient, bool)

// Handler for WebSocket connections
type Handler struct {
	hub         *Hub
	recipientOf RecipientFunc
	upgrader    websocket.Upgrader
	logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigins lists the
// front-end origins permitted to open browser sockets.
func NewHandler(hub *Hub, recipientOf RecipientFunc, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:         hub,
		recipientOf: recipientOf,
		upgrader:    newUpgrader(allowedOrigins),
		logger:      logger,
	}
}

// HandleConnection upgrades the request and subscribes it to the caller's notifications
func (h *Handler) HandleConnection(c *gin.Context) {
	recipient, ok := h.recipientOf(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", recipient.UserID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 32),
		key:    RecipientKey(recipient),
		logger: h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
