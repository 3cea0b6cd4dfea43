package transport

import (
	"gorpoker/pkg/game"
)

// outbound event names (client to server)
const (
	EventJoinGame         = "join-game"
	EventLeaveGame        = "leave-game"
	EventPlayerAction     = "player-action"
	EventReadyForNext     = "ready-for-next-round"
	EventRequestGameState = "request-game-state"
	EventJoinChat         = "join-chat"
	EventLeaveChat        = "leave-chat"
	EventSendChatMessage  = "send-chat-message"
)

// inbound event names (server to client)
const (
	EventGameUpdated     = "game-updated"
	EventPlayerJoined    = "player-joined"
	EventPlayerLeft      = "player-left"
	EventActionBroadcast = "action-broadcast"
	EventRoundStarted    = "round-started"
	EventRoundEnded      = "round-ended"
	EventGameEnded       = "game-ended"
	EventTimerUpdate     = "timer-update"
	EventError           = "error"
	EventChatMessage     = "chat-message"
)

// JoinGamePayload identifies the room to join or leave
type JoinGamePayload struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

// ReadyPayload signals a player is ready for the next round
type ReadyPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// RequestGameStatePayload asks the server for a full snapshot
type RequestGameStatePayload struct {
	GameID string `json:"gameId"`
}

// ChatPayload carries a chat message on the shared channel
type ChatPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// PlayerJoinedPayload announces a new seat
type PlayerJoinedPayload struct {
	Game   *game.Game   `json:"game"`
	Player *game.Player `json:"player"`
}

// PlayerLeftPayload announces a vacated seat
type PlayerLeftPayload struct {
	Game     *game.Game `json:"game"`
	PlayerID string     `json:"playerId"`
}

// RoundPayload carries the snapshot for round lifecycle events
type RoundPayload struct {
	Game   *game.Game `json:"game"`
	Winner string     `json:"winner,omitempty"`
}

// TimerUpdatePayload is the advisory turn countdown
type TimerUpdatePayload struct {
	PlayerID      string `json:"playerId"`
	TimeRemaining int    `json:"timeRemaining"`
}

// ErrorPayload is a server-reported, non-fatal error
type ErrorPayload struct {
	Message string `json:"message"`
}
