package observer

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub indexes connected clients by the execution IDs they've subscribed
// to and fans events out to them.
type Hub struct {
	mu            sync.RWMutex
	clients       map[*Client]bool
	byExecutionID map[string]map[*Client]bool
	log           zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		byExecutionID: make(map[string]map[*Client]bool),
		log:           log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	for execID := range c.subscriptions {
		if set, ok := h.byExecutionID[execID]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.byExecutionID, execID)
			}
		}
	}
}

func (h *Hub) subscribe(c *Client, executionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.subscriptions[executionID] = true
	if h.byExecutionID[executionID] == nil {
		h.byExecutionID[executionID] = make(map[*Client]bool)
	}
	h.byExecutionID[executionID][c] = true
}

func (h *Hub) unsubscribe(c *Client, executionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(c.subscriptions, executionID)
	if set, ok := h.byExecutionID[executionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byExecutionID, executionID)
		}
	}
}

// Broadcast delivers event to every client subscribed to its ExecutionID.
// A client whose send buffer is full has the event dropped for it rather
// than blocking the broadcaster.
func (h *Hub) Broadcast(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byExecutionID[event.ExecutionID] {
		select {
		case c.send <- event:
		default:
			h.log.Warn().Str("client_id", c.id).Str("event_type", event.Type).Msg("client buffer full, dropping event")
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
