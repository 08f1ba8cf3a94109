package notify

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"obradoc/internal/model"
)

// Hub pushes freshly delivered notifications to connected websocket
// clients, keyed by user.
type Hub struct {
	mu    sync.RWMutex
	conns map[primitive.ObjectID]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[primitive.ObjectID]map[*websocket.Conn]struct{})}
}

// Register attaches a connection for a user.
func (h *Hub) Register(userID primitive.ObjectID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

// Unregister detaches a connection; the caller closes it.
func (h *Hub) Unregister(userID primitive.ObjectID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, userID)
		}
	}
}

// Push sends a notification to every open connection of its target user.
// Write failures only drop that connection's message; the connection's read
// loop notices the broken pipe and unregisters it.
func (h *Hub) Push(n *model.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns[n.UserID] {
		if err := conn.WriteJSON(n); err != nil {
			log.Printf("[notify] websocket push failed: %v", err)
		}
	}
}
