package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"

	"github.com/listinha-app/listinha/internal/model"
	"github.com/listinha-app/listinha/internal/search"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// searchRequest is what a client sends while the user types in the product
// search box.
type searchRequest struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// suggestionsPayload carries debounced search results back to the client. The
// query echoes which input the results belong to.
type suggestionsPayload struct {
	Type     string          `json:"type"`
	Query    string          `json:"query"`
	Products []model.Product `json:"products"`
}

// Client is a single WebSocket connection. Each client owns a debounced
// suggester so rapid typing issues at most one catalog query per quiet
// period, and stale results never overwrite newer ones.
type Client struct {
	hub     *Hub
	conn    *ws.Conn
	send    chan []byte
	suggest *search.Suggester
}

// NewClient creates a Client tied to the given hub and connection. queryFn
// runs the catalog search for incoming suggestion requests.
func NewClient(hub *Hub, conn *ws.Conn, queryFn search.QueryFunc, debounce time.Duration) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	c.suggest = search.NewSuggester(debounce, queryFn, c.deliverSuggestions)
	return c
}

// Run registers the client, starts the write pump, and blocks in the read
// pump until the connection closes.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)
	defer c.suggest.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump feeds search requests into the suggester and ignores everything
// else. It returns on read error, which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var req searchRequest
		if err := json.Unmarshal(data, &req); err != nil {
			continue
		}
		if req.Type == "search" {
			c.suggest.Input(req.Query)
		}
	}
}

func (c *Client) deliverSuggestions(query string, products []model.Product) {
	if products == nil {
		products = []model.Product{}
	}
	data, err := json.Marshal(suggestionsPayload{Type: "suggestions", Query: query, Products: products})
	if err != nil {
		return
	}
	// Dropped delivery is fine: the client is gone or behind and can retype.
	c.hub.trySend(c, data)
}

// writePump drains the send channel onto the socket and pings periodically to
// detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
