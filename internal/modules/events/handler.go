package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	loggerf  func(format string, args ...interface{})
}

func NewHandler(hub *Hub, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin is enforced by the CORS layer and JWT auth in front
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		loggerf: loggerf,
	}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.Stream)
}

// Stream upgrades the connection and keeps it registered until the dashboard
// disconnects. The server only pushes, inbound frames are drained and ignored.
func (h *Handler) Stream(c *gin.Context) {
	adminID := c.GetInt64("admin_id")
	if adminID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.loggerf("level=error msg=websocket upgrade failed admin_id=%d err=%v", adminID, err)
		return
	}

	h.hub.Register(adminID, conn)
	h.loggerf("level=info msg=dashboard connected admin_id=%d online=%d", adminID, h.hub.OnlineCount())

	defer func() {
		h.hub.Unregister(adminID)
		h.loggerf("level=info msg=dashboard disconnected admin_id=%d online=%d", adminID, h.hub.OnlineCount())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
