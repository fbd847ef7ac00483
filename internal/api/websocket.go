package api

import (
	"log"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket event types
const (
	EventRenderAccepted  = "render_accepted"
	EventRenderCompleted = "render_completed"
	EventRenderFailed    = "render_failed"
)

// Event is pushed to every connected client over the render lifecycle
type Event struct {
	Type     string `json:"type"`
	RenderID string `json:"render_id"`
	Document string `json:"document,omitempty"`
	Pages    int    `json:"pages,omitempty"`
	Error    string `json:"error,omitempty"`
}

// eventHub fans render events out to connected WebSocket clients
type eventHub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
}

func newEventHub() *eventHub {
	return &eventHub{clients: make(map[*wsClient]bool)}
}

func (h *eventHub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *eventHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *eventHub) broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			// slow client, drop the event rather than block renders
		}
	}
}

// wsClient represents a connected WebSocket client
type wsClient struct {
	conn *websocket.Conn
	send chan Event
	hub  *eventHub
}

// handleWebSocket upgrades the connection and streams render events
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan Event, 64),
		hub:  s.hub,
	}
	s.hub.add(client)

	go client.writePump()
	go client.readPump()
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			log.Printf("WebSocket write error: %v", err)
			c.hub.remove(c)
			return
		}
	}
}

// readPump discards inbound frames; it exists to detect client disconnects
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
