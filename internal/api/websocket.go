package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// Event types pushed over /ws.
const (
	EventBiblesLoaded = "bibles_loaded"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
	// Incoming messages are ignored, but a client flooding the socket is
	// disconnected.
	clientMessageRate  = 10
	clientMessageBurst = 20
)

// Event is a message sent to dashboard clients.
type Event struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	Versions  []string `json:"versions"`
	Files     int      `json:"files"`
	Errors    []string `json:"errors,omitempty"`
}

// LoadedEvent builds the bibles_loaded event for a finished load pass.
func LoadedEvent(report scripture.LoadReport) Event {
	ev := Event{
		Type:      EventBiblesLoaded,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Versions:  report.Versions,
		Files:     len(report.Files),
	}
	if ev.Versions == nil {
		ev.Versions = []string{}
	}
	for _, err := range report.Errors() {
		ev.Errors = append(ev.Errors, err.Error())
	}
	return ev
}

// Client is one WebSocket connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to connected clients. All client bookkeeping happens
// on the goroutine running Run.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// welcome, if set, supplies a message queued for every new client.
	welcome func() ([]byte, bool)
	// onCount, if set, observes the client count after each change.
	onCount func(int)
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			if h.welcome != nil {
				if msg, ok := h.welcome(); ok {
					client.send <- msg
				}
			}
			h.counted()
			logging.WebSocketEvent("client_connected", len(h.clients), "client_id", client.id)

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
				h.counted()
				logging.WebSocketEvent("client_disconnected", len(h.clients), "client_id", client.id)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.drop(client)
					h.counted()
					logging.WebSocketEvent("client_dropped", len(h.clients), "client_id", client.id, "reason", "slow consumer")
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) counted() {
	if h.onCount != nil {
		h.onCount(len(h.clients))
	}
}

// Broadcast queues ev for every connected client. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logging.Error("failed to marshal event", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		logging.Warn("broadcast channel full, dropping event", "type", ev.Type)
	}
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.leave()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(clientMessageRate, clientMessageBurst)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn("websocket unexpected close", "client_id", c.id, "error", err)
			}
			return
		}
		if !limiter.Allow() {
			logging.SecurityEvent("message_rate_exceeded", "websocket", "client_id", c.id)
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "rate limit exceeded"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isOriginAllowed matches an Origin header against exact origins, "*", or
// "*.example.com" wildcard subdomains. An empty list allows everything.
func isOriginAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	if origin == "" {
		return false
	}
	for _, pattern := range allowed {
		switch {
		case pattern == "*", pattern == origin:
			return true
		case strings.HasPrefix(pattern, "*."):
			if strings.HasSuffix(origin, pattern[1:]) {
				return true
			}
		}
	}
	return false
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if !isOriginAllowed(origin, allowedOrigins) {
				logging.SecurityEvent("origin_rejected", "websocket", "origin", origin)
				return false
			}
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			id:   uuid.NewString(),
			hub:  h,
			conn: conn,
			send: make(chan []byte, sendBuffer),
		}
		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
