package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wschat-service/internal/messenger"
)

// NewUpgrader builds the websocket upgrader with origin validation. Requests
// without an Origin header (non-browser clients) are accepted; browsers must
// match the configured allowlist, with localhost always allowed for
// development.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			for _, allowed := range allowedOrigins {
				if origin == strings.TrimSpace(allowed) {
					return true
				}
			}

			return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
		},
	}
}

// Serve upgrades the request and registers the resulting connection with the
// messenger. This is the only call the HTTP layer makes into the core.
func Serve(m *messenger.Messenger, upgrader *websocket.Upgrader, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			c.Status(http.StatusNotImplemented)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			log.Warn("websocket upgrade failed", "remote", c.Request.RemoteAddr, "error", err)
			return
		}

		peer := NewPeer(conn, log)
		sess := m.Register(peer)
		go peer.Run(sess)
	}
}
