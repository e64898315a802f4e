package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a change notification pushed to clients watching a house. The
// payload is intentionally minimal: consumers are expected to reload the
// collection wholesale rather than apply the delta.
type Message struct {
	Type    string `json:"type"`
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	HouseID string `json:"house_id"`
	ID      string `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, houseID, id string) Message {
	return Message{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Entity:  entity,
		Action:  action,
		HouseID: houseID,
		ID:      id,
	}
}

// Hub maintains the set of active WebSocket clients grouped by the house they
// watch, and broadcasts change notifications to each house's watchers.
type Hub struct {
	mu     sync.RWMutex
	houses map[string]map[*Client]struct{}
	logger *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		houses: make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Register adds a client to the watcher set for its house.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	watchers, ok := h.houses[c.houseID]
	if !ok {
		watchers = make(map[*Client]struct{})
		h.houses[c.houseID] = watchers
	}
	watchers[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if watchers, ok := h.houses[c.houseID]; ok {
		if _, ok := watchers[c]; ok {
			delete(watchers, c)
			close(c.send)
		}
		if len(watchers) == 0 {
			delete(h.houses, c.houseID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every client watching the message's house.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.houses[msg.HouseID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full: drop rather than block. Consumers
			// reload wholesale on the next event anyway.
		}
	}
}

// WatcherCount returns the number of clients watching a house.
func (h *Hub) WatcherCount(houseID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.houses[houseID])
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, watchers := range h.houses {
		n += len(watchers)
	}
	return n
}
