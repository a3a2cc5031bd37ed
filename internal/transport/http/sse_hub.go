package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// Client represents a connected SSE client.
type Client struct {
	userID uuid.UUID
	send   chan []byte
}

// Hub manages all active SSE client connections.
// Single-instance model: all broadcast is in-process.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*Client
}

// NewHub creates a new SSE Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID][]*Client)}
}

// Register adds a new SSE client.
func (h *Hub) Register(userID uuid.UUID, send chan []byte) *Client {
	c := &Client{userID: userID, send: send}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = append(h.clients[userID], c)

	log.Debug().Str("user", userID.String()).Msg("SSE client connected")
	return c
}

// Unregister removes an SSE client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[c.userID]
	updated := make([]*Client, 0, len(clients))
	for _, existing := range clients {
		if existing != c {
			updated = append(updated, existing)
		}
	}

	if len(updated) == 0 {
		delete(h.clients, c.userID)
	} else {
		h.clients[c.userID] = updated
	}

	log.Debug().Str("user", c.userID.String()).Msg("SSE client disconnected")
}

// Broadcast sends a notification to all connected SSE clients for a user.
// This satisfies the application.Broadcaster interface.
func (h *Hub) Broadcast(userID uuid.UUID, n *domain.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.clients[userID]
	if len(clients) == 0 {
		return
	}

	msg, err := buildSSEMessage(n)
	if err != nil {
		log.Error().Err(err).Str("id", n.ID.String()).Msg("encode SSE message")
		return
	}

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// Client is slow/disconnected, skip
			log.Warn().Str("user", userID.String()).Msg("SSE client send buffer full, skipping")
		}
	}
}

// ConnectedCount returns the total number of connected SSE clients.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func buildSSEMessage(n *domain.Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: notification\nid: %s\ndata: %s\n\n", n.ID, data)), nil
}
