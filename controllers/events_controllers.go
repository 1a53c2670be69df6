package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cjmrtn/tableflow/events"
	"github.com/cjmrtn/tableflow/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler -> websocket endpoint for push subscribers. The view kind is
// informational; every subscriber currently receives every event.
func EventsHandler(c *gin.Context) {
	view := c.DefaultQuery("view", "floor")

	// Upgrade writes its own error response on failure.
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Websocket upgrade failed for %s: %v", c.ClientIP(), err)
		return
	}

	events.RegisterClient(ws, view)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
