package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// echoServer upgrades connections and answers request-game-state with an
// error event, echoing everything else back verbatim
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("could not upgrade: %v", err)
			return
		}

		defer conn.Close()

		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}

			if env.Event == EventRequestGameState {
				env = Envelope{Event: EventError}
				env.Payload, _ = json.Marshal(ErrorPayload{Message: "no such game"})
			}

			if err := conn.WriteJSON(env); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWS_ConnectSendReceive(t *testing.T) {
	a := assert.New(t)

	server := echoServer(t)
	defer server.Close()

	tr := NewWS(nil, wsURL(server), "http://localhost")
	a.False(tr.Connected())

	received := make(chan JoinGamePayload, 1)
	tr.On(EventJoinGame, func(payload json.RawMessage) {
		var p JoinGamePayload
		a.NoError(json.Unmarshal(payload, &p))
		received <- p
	})

	errs := make(chan ErrorPayload, 1)
	tr.On(EventError, func(payload json.RawMessage) {
		var p ErrorPayload
		a.NoError(json.Unmarshal(payload, &p))
		errs <- p
	})

	a.NoError(tr.Connect(context.Background()))
	a.True(tr.Connected())

	// connecting twice is a no-op
	a.NoError(tr.Connect(context.Background()))

	a.NoError(tr.Send(EventJoinGame, JoinGamePayload{GameID: "g1", UserID: "u1"}))

	select {
	case p := <-received:
		a.Equal("g1", p.GameID)
		a.Equal("u1", p.UserID)
	case <-time.After(5 * time.Second):
		t.Fatal("echo never arrived")
	}

	a.NoError(tr.Send(EventRequestGameState, RequestGameStatePayload{GameID: "missing"}))

	select {
	case p := <-errs:
		a.Equal("no such game", p.Message)
	case <-time.After(5 * time.Second):
		t.Fatal("error event never arrived")
	}

	a.NoError(tr.Close())
	a.False(tr.Connected())
	a.Equal(ErrNotConnected, tr.Send(EventLeaveGame, nil))
}

func TestWS_SendBufferFull(t *testing.T) {
	a := assert.New(t)

	// a live connection whose write loop is stalled: an unbuffered send
	// channel with no reader
	tr := NewWS(nil, "ws://unused", "")
	tr.connected = true
	tr.send = make(chan Envelope)

	err := tr.Send(EventJoinGame, JoinGamePayload{GameID: "g1"})
	a.Equal(ErrSendBufferFull, err)
	a.NotEqual(ErrNotConnected, err)
}

func TestWS_SendWhileDisconnected(t *testing.T) {
	a := assert.New(t)

	tr := NewWS(nil, "ws://localhost:1/ws", "")
	a.Equal(ErrNotConnected, tr.Send(EventJoinGame, JoinGamePayload{}))
}

func TestWS_ConnectFailure(t *testing.T) {
	a := assert.New(t)

	tr := NewWS(nil, "ws://localhost:1/ws", "")
	a.Error(tr.Connect(context.Background()))
	a.False(tr.Connected())
}

func TestWS_ConnectionChangeCallback(t *testing.T) {
	a := assert.New(t)

	server := echoServer(t)
	defer server.Close()

	tr := NewWS(nil, wsURL(server), "")

	events := make(chan bool, 4)
	tr.OnConnectionChange(func(connected bool) {
		events <- connected
	})

	a.NoError(tr.Connect(context.Background()))

	select {
	case connected := <-events:
		a.True(connected)
	case <-time.After(time.Second):
		t.Fatal("connect callback never fired")
	}

	a.NoError(tr.Close())

	select {
	case connected := <-events:
		a.False(connected)
	case <-time.After(time.Second):
		t.Fatal("disconnect callback never fired")
	}
}

func TestWS_ServerDropMarksDisconnected(t *testing.T) {
	a := assert.New(t)

	server := echoServer(t)

	tr := NewWS(nil, wsURL(server), "")

	events := make(chan bool, 4)
	tr.OnConnectionChange(func(connected bool) {
		events <- connected
	})

	a.NoError(tr.Connect(context.Background()))
	<-events // connected

	// the server goes away; the read loop should notice
	server.CloseClientConnections()

	select {
	case connected := <-events:
		a.False(connected)
	case <-time.After(5 * time.Second):
		t.Fatal("drop never detected")
	}

	a.False(tr.Connected())
	server.Close()
}
