package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"service-marketplace-server/models"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub     *Hub
	ActorID string
	Role    string // "requester", "provider" or "admin"
	Conn    *websocket.Conn
	Send    chan []byte
	mu      sync.Mutex
}

// Hub manages all WebSocket connections and routes notifications to the
// audience they target
type Hub struct {
	// Registered clients, keyed by actor ID
	Clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// Message is the envelope written to connected clients
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if old, ok := h.Clients[client.ActorID]; ok {
				close(old.Send)
			}
			h.Clients[client.ActorID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: actor=%s, role=%s", client.ActorID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.ActorID]; ok && current == client {
				delete(h.Clients, client.ActorID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: actor=%s, role=%s", client.ActorID, client.Role)
		}
	}
}

// Dispatch delivers a notification to every connected client whose role
// matches the notification's audience. It never blocks: clients with a full
// send buffer are skipped.
func (h *Hub) Dispatch(n models.ServiceNotification) {
	message := &Message{
		Type:      "notification",
		Timestamp: n.Timestamp,
		Data:      n,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling notification: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for actorID, client := range h.Clients {
		if client.Role != string(n.Audience) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("⚠️ Actor %s's send buffer is full, dropping notification", actorID)
		}
	}
}

// SendToActor sends a message to a specific connected actor
func (h *Hub) SendToActor(actorID string, message *Message) {
	h.mu.RLock()
	client, exists := h.Clients[actorID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ Actor %s's send buffer is full", actorID)
	}
}

// ConnectedActors returns the IDs of currently connected actors
func (h *Hub) ConnectedActors() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	actors := make([]string, 0, len(h.Clients))
	for actorID := range h.Clients {
		actors = append(actors, actorID)
	}
	return actors
}

// IsConnected checks if an actor currently has an open connection
func (h *Hub) IsConnected(actorID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.Clients[actorID]
	return exists
}
