package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to the CSR feed.
const (
	EventRequestCreated   = "request_created"
	EventRequestUpdated   = "request_updated"
	EventRequestDeleted   = "request_deleted"
	EventRequestMatched   = "request_matched"
	EventRequestCompleted = "request_completed"
)

// Client is one connected websocket. A user may hold several.
type Client struct {
	Hub    *Hub
	UserID uint
	Role   string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Message is the envelope for every frame on the feed
type Message struct {
	Type      string      `json:"type"`
	SenderID  uint        `json:"sender_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// MessageHandler handles an inbound frame from a client
type MessageHandler func(*Client, *Message) error

// Hub fans request events out to connected CSR clients
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	handlers   map[string]MessageHandler
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		handlers:   make(map[string]MessageHandler),
		done:       make(chan struct{}),
	}
	h.handlers["ping"] = h.handlePing
	return h
}

// Run is the hub loop. It returns when ctx is cancelled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			log.Printf("🔌 Client registered: user=%d role=%s", c.UserID, c.Role)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: user=%d", c.UserID)

		case m := <-h.broadcast:
			h.broadcastMessage(m)
		}
	}
}

func (h *Hub) broadcastMessage(m *Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.Send <- data:
		default:
			// slow consumer
			delete(h.clients, c)
			close(c.Send)
		}
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for every connected client. It never blocks the
// caller; events are dropped if the hub is backed up.
func (h *Hub) Publish(eventType string, data interface{}) {
	m := &Message{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
	select {
	case h.broadcast <- m:
	default:
		log.Printf("⚠️ Hub backlog full, dropping %s event", eventType)
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected reports whether userID has at least one open connection
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

func (h *Hub) handlePing(c *Client, _ *Message) error {
	data, err := json.Marshal(&Message{Type: "pong", Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}
	// Send is closed by the hub once the client is removed.
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return nil
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("⚠️ Could not send pong to user %d", c.UserID)
	}
	return nil
}
