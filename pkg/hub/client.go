package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames; clients only send small acks
	maxMessageSize = 4 * 1024
)

// ack is sent back for every inbound text frame, so simple clients can
// confirm the stream is alive without a protocol of their own.
var ack = []byte(`{"status": "ok"}`)

// Client represents a single websocket subscriber.
type Client struct {
	// ID identifies the subscriber in logs.
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// done is closed by the hub on removal. It is the only removal
	// signal: send stays open for the client's lifetime, so the ack
	// path in readPump can never race a channel close.
	done chan struct{}
}

// NewClient creates a new client and registers it with the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := &Client{
		ID:   uuid.NewString()[:8],
		hub:  hub,
		conn: conn,
		send: make(chan Message, 256), // Buffered channel for backpressure
		done: make(chan struct{}),
	}
	hub.register <- client
	return client
}

// Run starts the client's read and write pumps.
// This should be called in the websocket handler; it blocks until the
// connection closes, at which point the client is unregistered.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump reads messages from the websocket connection. It keeps the
// connection alive, detects disconnection, and acknowledges inbound text.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType == websocket.TextMessage && !c.acknowledge() {
			break
		}
	}
}

// acknowledge queues the stream-alive ack through the send channel, so
// writePump stays the only writer on the connection. It never blocks: a
// full buffer drops the ack. Returns false once the hub has removed the
// client, telling readPump to stop.
func (c *Client) acknowledge() bool {
	select {
	case <-c.done:
		return false
	case c.send <- NewMessage(ack):
	default:
	}
	return true
}

// writePump writes messages to the websocket connection.
// Only this goroutine writes to the connection - no race conditions!
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case <-c.done:
			// Hub removed this client - send close frame
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
