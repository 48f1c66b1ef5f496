// Package notify broadcasts user-facing notices to websocket clients.
package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tripspotter/app"
)

// Notice types.
const (
	Info    = "info"
	Success = "success"
	Error   = "error"
)

// backlog is how many recent notices a new client is sent.
const backlog = 20

const writeWait = 10 * time.Second

// Notice is a short message for the user.
type Notice struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

type client struct {
	mu   sync.Mutex // serialises writes
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans notices out to every connected client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	recent  []Notice
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Publish records a notice and sends it to all clients. Clients whose write
// fails are dropped.
func (h *Hub) Publish(typ, format string, args ...interface{}) Notice {
	n := Notice{Type: typ, Message: fmt.Sprintf(format, args...), Time: time.Now()}
	b, _ := json.Marshal(n)

	h.mu.Lock()
	h.recent = append(h.recent, n)
	if len(h.recent) > backlog {
		h.recent = h.recent[len(h.recent)-backlog:]
	}
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(b); err != nil {
			h.drop(c.conn)
		}
	}
	return n
}

// Recent returns the latest notices, oldest first.
func (h *Hub) Recent() []Notice {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Notice{}, h.recent...)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// Handler upgrades the request and streams notices, starting with the
// recent backlog.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Log("notify", "WebSocket upgrade error: %v", err)
		return
	}
	c := &client{conn: conn}

	// Register and take the backlog under the hub lock so a concurrent
	// Publish is delivered exactly once.
	h.mu.Lock()
	h.clients[conn] = c
	recent := append([]Notice{}, h.recent...)
	total := len(h.clients)
	c.mu.Lock()
	h.mu.Unlock()

	app.Log("notify", "Client connected (total: %d)", total)
	var failed bool
	for _, n := range recent {
		b, _ := json.Marshal(n)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			failed = true
			break
		}
	}
	c.mu.Unlock()
	if failed {
		h.drop(conn)
		return
	}

	// Reads only detect the client going away.
	go func() {
		defer func() {
			h.drop(conn)
			app.Log("notify", "Client disconnected (total: %d)", h.Clients())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
