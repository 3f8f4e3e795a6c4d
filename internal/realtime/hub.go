// Package realtime pushes order events to connected websocket clients.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Order event types.
const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventWriterAssigned     = "writer_assigned"
)

// Event is the payload pushed to an order's owner.
type Event struct {
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Version int    `json:"version"`
}

// Client is one live connection. The network side lives in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub tracks connections per user.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{users: make(map[string]map[Client]struct{})}
}

var (
	hubInstance *Hub
	once        sync.Once
)

// GetHub returns the process-wide hub.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]struct{})
	}
	h.users[userID][client] = struct{}{}
}

// Unregister removes a client and drops the user once no clients remain.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.users[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.users, userID)
		}
	}
}

// Connections returns how many clients a user has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Broadcast sends message to every client of a user and returns how many
// accepted it. Failed clients are cleaned up by their own handler.
func (h *Hub) Broadcast(userID string, message []byte) int {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.users[userID]))
	for c := range h.users[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish pushes an order event to the order's owner.
func (h *Hub) Publish(eventType, orderID, userID string) int {
	payload, err := json.Marshal(Event{
		Type:    eventType,
		OrderID: orderID,
		UserID:  userID,
		Version: 1,
	})
	if err != nil {
		log.Printf("realtime: encode %s: %v", eventType, err)
		return 0
	}
	return h.Broadcast(userID, payload)
}
