package ws

import (
	"context"
	"log"
	"sync"
)

// Hub fans corpus events out to every connected websocket client. Clients
// whose send buffer is full are dropped rather than allowed to stall the
// broadcast loop.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		logger:     logger,
	}
}

// Run owns the client set until ctx is cancelled, then closes every
// remaining connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Printf("[WS] Client connected | id=%s total=%d", client.id, total)

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			targets := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- message:
				default:
					h.drop(client)
				}
			}
			h.logger.Printf("[WS] Broadcast | clients=%d", len(targets))
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	default:
		h.drop(client)
	}
}

// Broadcast queues a message for every client. When the hub is saturated the
// message is dropped; corpus events are advisory and the next one supersedes
// this one anyway.
func (h *Hub) Broadcast(message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Printf("[WS] Broadcast dropped | reason=buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) drop(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	if ok {
		h.logger.Printf("[WS] Client disconnected | id=%s total=%d", client.id, total)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
