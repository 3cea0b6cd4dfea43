package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

// WS is a websocket transport to the game server
type WS struct {
	url    string
	origin string
	logger logrus.FieldLogger

	mu         sync.RWMutex
	conn       *websocket.Conn
	connected  bool
	handlers   map[string][]Handler
	connChange func(connected bool)

	send chan Envelope
	done chan struct{}
}

var _ Transport = (*WS)(nil)

// NewWS returns a websocket transport for the given endpoint
func NewWS(logger logrus.FieldLogger, url, origin string) *WS {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &WS{
		url:      url,
		origin:   origin,
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Connect dials the server and starts the read and write loops
func (w *WS) Connect(ctx context.Context) error {
	w.mu.Lock()
	if w.connected {
		w.mu.Unlock()
		return nil
	}

	var header http.Header
	if w.origin != "" {
		header = http.Header{"Origin": []string{w.origin}}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, header)
	if err != nil {
		w.mu.Unlock()
		return err
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	w.conn = conn
	w.connected = true
	w.send = make(chan Envelope, 256)
	w.done = make(chan struct{})
	fn := w.connChange
	w.mu.Unlock()

	go w.writeLoop(conn)
	go w.readLoop(conn)

	w.logger.WithField("url", w.url).Debug("transport connected")

	if fn != nil {
		fn(true)
	}

	return nil
}

// Close tears down the connection
func (w *WS) Close() error {
	w.mu.Lock()
	if !w.connected {
		w.mu.Unlock()
		return nil
	}

	w.connected = false
	conn := w.conn
	w.conn = nil
	close(w.done)
	fn := w.connChange
	w.mu.Unlock()

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	err := conn.Close()

	if fn != nil {
		fn(false)
	}

	return err
}

// Send transmits an event to the server
func (w *WS) Send(event string, payload interface{}) error {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		return err
	}

	w.mu.RLock()
	connected := w.connected
	send := w.send
	w.mu.RUnlock()

	if !connected {
		return ErrNotConnected
	}

	select {
	case send <- env:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// On registers a handler for an inbound event
func (w *WS) On(event string, handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.handlers[event] = append(w.handlers[event], handler)
}

// OnConnectionChange registers the connect/disconnect callback
func (w *WS) OnConnectionChange(fn func(connected bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.connChange = fn
}

// Connected returns true while the connection is live
func (w *WS) Connected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.connected
}

func (w *WS) writeLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	w.mu.RLock()
	send := w.send
	done := w.done
	w.mu.RUnlock()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case env := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				w.logger.WithError(err).Error("could not write message")
				return
			}
		case <-done:
			return
		}
	}
}

func (w *WS) readLoop(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			w.markDisconnected(err)
			return
		}

		w.dispatch(env.Event, env.Payload)
	}
}

func (w *WS) dispatch(event string, payload json.RawMessage) {
	w.mu.RLock()
	handlers := append([]Handler{}, w.handlers[event]...)
	w.mu.RUnlock()

	if len(handlers) == 0 {
		w.logger.WithField("event", event).Trace("no handler for event")
		return
	}

	for _, handler := range handlers {
		handler(payload)
	}
}

func (w *WS) markDisconnected(err error) {
	w.mu.Lock()
	if !w.connected {
		w.mu.Unlock()
		return
	}

	w.connected = false
	conn := w.conn
	w.conn = nil
	close(w.done)
	fn := w.connChange
	w.mu.Unlock()

	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		w.logger.WithError(err).Error("connection lost")
	}

	_ = conn.Close()

	if fn != nil {
		fn(false)
	}
}
