package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"permiso_backend/internal/logger"
	"permiso_backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is fixed.
		return true
	},
}

type Handler struct {
	Manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{Manager: manager}
}

// ServeWS upgrades the connection for the authenticated user. The route is
// behind the auth middleware, so the user ID comes from the verified token,
// never from the client.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan any, 256),
		Manager: h.Manager,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
