package transport

import (
	"context"
	"encoding/json"
	"sync"
)

// Inproc is an in-memory transport for tests and single-process demos.
// Outbound events are recorded and handed to an optional server func whose
// role is to script the authoritative side; inbound events are injected with
// Receive.
type Inproc struct {
	mu         sync.RWMutex
	connected  bool
	handlers   map[string][]Handler
	sent       []Envelope
	server     func(event string, payload json.RawMessage)
	connChange func(connected bool)
}

var _ Transport = (*Inproc)(nil)

// NewInproc returns a new in-memory transport
func NewInproc() *Inproc {
	return &Inproc{
		handlers: make(map[string][]Handler),
	}
}

// Connect marks the transport connected
func (i *Inproc) Connect(_ context.Context) error {
	i.mu.Lock()
	i.connected = true
	fn := i.connChange
	i.mu.Unlock()

	if fn != nil {
		fn(true)
	}

	return nil
}

// Close marks the transport disconnected
func (i *Inproc) Close() error {
	i.mu.Lock()
	wasConnected := i.connected
	i.connected = false
	fn := i.connChange
	i.mu.Unlock()

	if wasConnected && fn != nil {
		fn(false)
	}

	return nil
}

// Send records an outbound event and forwards it to the scripted server
func (i *Inproc) Send(event string, payload interface{}) error {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		return err
	}

	i.mu.Lock()
	if !i.connected {
		i.mu.Unlock()
		return ErrNotConnected
	}

	i.sent = append(i.sent, env)
	server := i.server
	i.mu.Unlock()

	if server != nil {
		server(env.Event, env.Payload)
	}

	return nil
}

// On registers a handler for an inbound event
func (i *Inproc) On(event string, handler Handler) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.handlers[event] = append(i.handlers[event], handler)
}

// OnConnectionChange registers the connect/disconnect callback
func (i *Inproc) OnConnectionChange(fn func(connected bool)) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.connChange = fn
}

// Connected returns true while the transport is marked connected
func (i *Inproc) Connected() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.connected
}

// Script installs a func that plays the authoritative server for outbound events
func (i *Inproc) Script(fn func(event string, payload json.RawMessage)) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.server = fn
}

// Receive injects an inbound event as if the server had sent it
func (i *Inproc) Receive(event string, payload interface{}) error {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		return err
	}

	i.mu.RLock()
	handlers := append([]Handler{}, i.handlers[event]...)
	i.mu.RUnlock()

	for _, handler := range handlers {
		handler(env.Payload)
	}

	return nil
}

// Sent returns the outbound events recorded so far
func (i *Inproc) Sent() []Envelope {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return append([]Envelope{}, i.sent...)
}

// LastSent returns the most recent outbound event, or nil
func (i *Inproc) LastSent() *Envelope {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.sent) == 0 {
		return nil
	}

	env := i.sent[len(i.sent)-1]
	return &env
}
