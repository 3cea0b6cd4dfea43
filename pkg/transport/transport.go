package transport

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotConnected is returned when a send is attempted without a connection
var ErrNotConnected = errors.New("transport is not connected")

// ErrSendBufferFull is returned when the outbound buffer cannot accept
// another message. The connection is still live; the caller may retry.
var ErrSendBufferFull = errors.New("send buffer is full")

// Handler receives the raw payload of an inbound event
type Handler func(payload json.RawMessage)

// Transport is a bidirectional event channel to the authoritative game
// server. Implementations must deliver inbound events in arrival order.
type Transport interface {
	// Connect establishes the connection
	Connect(ctx context.Context) error

	// Close tears down the connection
	Close() error

	// Send transmits an event with a JSON-encodable payload.
	// Returns ErrNotConnected if there is no live connection.
	Send(event string, payload interface{}) error

	// On registers a handler for an inbound event kind
	On(event string, handler Handler)

	// OnConnectionChange registers a callback for connect/disconnect
	OnConnectionChange(fn func(connected bool))

	// Connected returns true while the connection is live
	Connected() bool
}

// Envelope is the wire frame: an event name plus its payload
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals the payload into an envelope
func NewEnvelope(event string, payload interface{}) (Envelope, error) {
	env := Envelope{Event: event}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, err
		}

		env.Payload = raw
	}

	return env, nil
}
