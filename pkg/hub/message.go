// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
package hub

// Message is a text frame to be delivered to subscribers.
// Gaze stream payloads are pre-encoded JSON so the encoding cost is paid
// once per broadcast, not once per client.
type Message struct {
	Data []byte
}

// NewMessage wraps pre-encoded bytes in a Message.
func NewMessage(data []byte) Message {
	return Message{Data: data}
}
