package handlers

import (
	"github.com/LankyMoose/poller.pro/internal/live"

	"github.com/gin-gonic/gin"
)

type SocketHandler struct {
	hub *live.Hub
}

func NewSocketHandler(hub *live.Hub) *SocketHandler {
	return &SocketHandler{hub: hub}
}

// Serve upgrades the request to a websocket session. AuthRequired runs
// before this, so unauthenticated callers are rejected before any upgrade.
func (h *SocketHandler) Serve(c *gin.Context) {
	user, _ := CurrentUser(c)
	if err := live.ServeWS(h.hub, c.Writer, c.Request, user.ID); err != nil {
		// Upgrade failures already wrote a response.
		return
	}
}
