package http

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"mathbattle-service/internal/domain"
)

// client is one websocket connection with its outbound queue.
type client struct {
	id   string
	conn *websocket.Conn
	send chan domain.Event
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// enqueue pushes an event, dropping the oldest queued one instead of blocking
// the broadcaster on a slow reader.
func (c *client) enqueue(ev domain.Event) {
	select {
	case c.send <- ev:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- ev:
		default:
		}
	}
}

// Hub tracks connections and room membership, and implements the engine's
// Broadcaster.
type Hub struct {
	mu     sync.RWMutex
	byConn map[string]*client
	rooms  map[string]map[string]*client
}

func NewHub() *Hub {
	return &Hub{
		byConn: make(map[string]*client),
		rooms:  make(map[string]map[string]*client),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.byConn[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	c, ok := h.byConn[connID]
	if ok {
		delete(h.byConn, connID)
	}
	for code, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

func (h *Hub) joinRoom(connID, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.byConn[connID]
	if !ok {
		return
	}
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]*client)
	}
	h.rooms[code][connID] = c
}

// Broadcast delivers an event to every member of a room.
func (h *Hub) Broadcast(roomCode string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomCode] {
		c.enqueue(event)
	}
}

// Unicast delivers an event to a single connection.
func (h *Hub) Unicast(connectionID string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.byConn[connectionID]; ok {
		c.enqueue(event)
	}
}

// writePump serializes all writes for one connection.
func (c *client) writePump() {
	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}
