// Package realtime pushes new notifications to connected websocket clients.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// Client is one websocket connection of a user.
type Client struct {
	UserID string
	Send   chan []byte
}

// NewClient returns a client with a buffered outbound queue.
func NewClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 32)}
}

// Hub tracks live clients per user. A client whose queue is full is dropped
// rather than blocking the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{clients: make(map[string]map[*Client]struct{}), log: log}
}

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

// Remove unregisters c and closes its queue. Safe to call twice.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Count reports the live connections of a user.
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

type pushMessage struct {
	Type         string              `json:"type"`
	Notification *model.Notification `json:"notification"`
}

// Push implements service.Pusher.
func (h *Hub) Push(userID string, n *model.Notification) {
	msg, err := json.Marshal(pushMessage{Type: "notification", Notification: n})
	if err != nil {
		h.log.Error("realtime: marshal notification", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
			h.log.Warn("realtime: dropping slow client", "user_id", userID)
			h.removeLocked(c)
		}
	}
}
