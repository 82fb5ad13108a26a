package websocket

import (
	"net/http"

	"studymate/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades an authenticated request to the live event feed. Only
// the listed origins may connect from a browser; "*" allows any and
// non-browser clients send no Origin at all.
func WSHandler(hub *Hub, origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}

	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		// Upgrade writes its own error response.
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			middleware.Logger(c).Warn("ws_upgrade_failed", "error", err)
			return
		}

		client := newClient(userID, conn, hub)
		if !hub.attach(client) {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
