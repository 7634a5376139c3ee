package websocket

import (
	"log/slog"
	"net/http"
	"time"

	ws "github.com/coder/websocket"

	"github.com/listinha-app/listinha/internal/search"
)

// Handle upgrades connections to WebSocket and runs them as hub clients.
func Handle(hub *Hub, queryFn search.QueryFunc, debounce time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // same-host deployments; the UI is served from this origin
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, queryFn, debounce)
		client.Run(r.Context())
	}
}
