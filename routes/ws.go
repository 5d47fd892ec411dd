package routes

import (
	"github.com/gin-gonic/gin"

	"volunteer-match-server/websocket"
)

// csrFeed upgrades the connection and streams request events to a CSR.
func (h *Handler) csrFeed(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	websocket.ServeWebSocket(h.Hub, c.Writer, c.Request, p.UserID, string(p.Role))
}
