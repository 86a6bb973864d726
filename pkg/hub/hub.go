package hub

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-gaze/internal/log"
)

// Hub maintains the set of active subscribers and fans each message out to
// all of them. Registration and unregistration may happen concurrently with
// a broadcast in progress: the hub's single Run loop owns all mutations, and
// subscribers that fail during a broadcast pass are collected and removed
// after the pass completes, never mid-iteration.
//
// Submitting a message is non-blocking from the producer's perspective,
// so the acquisition path never waits on network I/O.
type Hub struct {
	// Name for logging
	name string

	// Registered subscribers
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Guards clients for count queries from other goroutines
	mu sync.RWMutex

	running atomic.Bool
}

// New creates a new Hub.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's delivery loop.
// This should be called in a goroutine.
func (h *Hub) Run() {
	h.running.Store(true)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("subscriber connected", "hub", h.name, "id", client.ID, "total", count)

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// deliver fans one message out to every subscriber. A subscriber whose send
// buffer is full (or whose channel is gone) fails independently; the others
// still receive the message, and the failures are unregistered afterwards.
func (h *Hub) deliver(message Message) {
	var failed []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			failed = append(failed, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range failed {
		log.Warn("dropping slow subscriber", "hub", h.name, "id", client.ID)
		h.remove(client)
	}
}

// remove unregisters a client and signals its pumps to stop. The send
// channel is never closed: the client's read pump may still try to queue
// an ack for an inbound frame that raced the removal.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.done)
	}
	count := len(h.clients)
	h.mu.Unlock()
	log.Info("subscriber disconnected", "hub", h.name, "id", client.ID, "remaining", count)
}

// Broadcast submits a message for delivery to all subscribers.
// It never blocks; if the delivery loop is saturated the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warn("broadcast channel full, dropping message", "hub", h.name)
	}
}

// BroadcastJSON encodes v once and broadcasts it. When nobody is listening,
// or the delivery loop has not started, it returns immediately without
// serializing — per-sample broadcasts at device frame rate should cost
// nothing while idle.
func (h *Hub) BroadcastJSON(v interface{}) error {
	if h.ClientCount() == 0 || !h.running.Load() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(NewMessage(data))
	return nil
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsRunning returns whether the delivery loop has started.
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}
