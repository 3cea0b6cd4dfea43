package transport

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInproc_SendRequiresConnection(t *testing.T) {
	a := assert.New(t)

	tr := NewInproc()
	a.False(tr.Connected())

	err := tr.Send(EventJoinGame, JoinGamePayload{GameID: "g1", UserID: "u1"})
	a.Equal(ErrNotConnected, err)
	a.Nil(tr.LastSent())

	a.NoError(tr.Connect(context.Background()))
	a.True(tr.Connected())

	a.NoError(tr.Send(EventJoinGame, JoinGamePayload{GameID: "g1", UserID: "u1"}))
	a.Len(tr.Sent(), 1)
	a.Equal(EventJoinGame, tr.LastSent().Event)

	a.NoError(tr.Close())
	a.False(tr.Connected())
	a.Equal(ErrNotConnected, tr.Send(EventLeaveGame, nil))
}

func TestInproc_Receive(t *testing.T) {
	a := assert.New(t)

	tr := NewInproc()

	var got []string
	tr.On(EventError, func(payload json.RawMessage) {
		var p ErrorPayload
		a.NoError(json.Unmarshal(payload, &p))
		got = append(got, p.Message)
	})
	tr.On(EventError, func(payload json.RawMessage) {
		got = append(got, "second handler")
	})

	a.NoError(tr.Receive(EventError, ErrorPayload{Message: "boom"}))
	a.Equal([]string{"boom", "second handler"}, got)

	// events without handlers are dropped quietly
	a.NoError(tr.Receive(EventTimerUpdate, TimerUpdatePayload{PlayerID: "p1", TimeRemaining: 10}))
}

func TestInproc_Script(t *testing.T) {
	a := assert.New(t)

	tr := NewInproc()
	a.NoError(tr.Connect(context.Background()))

	// script a server that echoes a sync request with an error event
	tr.Script(func(event string, payload json.RawMessage) {
		if event == EventRequestGameState {
			_ = tr.Receive(EventError, ErrorPayload{Message: "unknown game"})
		}
	})

	var errMsg string
	tr.On(EventError, func(payload json.RawMessage) {
		var p ErrorPayload
		_ = json.Unmarshal(payload, &p)
		errMsg = p.Message
	})

	a.NoError(tr.Send(EventRequestGameState, RequestGameStatePayload{GameID: "missing"}))
	a.Equal("unknown game", errMsg)
}

func TestInproc_ConnectionChange(t *testing.T) {
	a := assert.New(t)

	tr := NewInproc()

	var events []bool
	tr.OnConnectionChange(func(connected bool) {
		events = append(events, connected)
	})

	a.NoError(tr.Connect(context.Background()))
	a.NoError(tr.Close())
	// closing a closed transport does not fire the callback again
	a.NoError(tr.Close())

	a.Equal([]bool{true, false}, events)
}

func TestNewEnvelope(t *testing.T) {
	a := assert.New(t)

	env, err := NewEnvelope(EventGameUpdated, map[string]string{"id": "g1"})
	a.NoError(err)
	a.Equal(EventGameUpdated, env.Event)
	a.JSONEq(`{"id":"g1"}`, string(env.Payload))

	env, err = NewEnvelope(EventLeaveGame, nil)
	a.NoError(err)
	a.Nil(env.Payload)

	_, err = NewEnvelope("bad", func() {})
	a.Error(err)
}
