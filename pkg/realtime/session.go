package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"gorpoker/pkg/game"
	"gorpoker/pkg/transport"

	"github.com/sirupsen/logrus"
)

// Callbacks are the presentation-layer hooks for inbound events.
// Any of them may be nil.
type Callbacks struct {
	OnGameUpdated     func(g *game.Game)
	OnPlayerJoined    func(g *game.Game, p *game.Player)
	OnPlayerLeft      func(g *game.Game, playerID string)
	OnActionBroadcast func(action game.PlayerAction)
	OnRoundStarted    func(g *game.Game)
	OnRoundEnded      func(g *game.Game, winner string)
	OnGameEnded       func(g *game.Game, winner string)
	OnTimerUpdate     func(playerID string, timeRemaining int)
	OnChatMessage     func(msg transport.ChatPayload)
	OnError           func(message string)
	OnActionReverted  func(action game.PlayerAction)
}

// Session binds one game's lifecycle to a transport: it routes inbound
// server events into the reconciliation store and forwards outbound player
// actions as optimistic+transmitted pairs.
type Session struct {
	logger    logrus.FieldLogger
	transport transport.Transport
	store     *Store
	callbacks Callbacks
	history   *game.History

	mu     sync.Mutex
	gameID string
	userID string
	joined bool
}

// NewSession returns a session wired to the given transport and store
func NewSession(logger logrus.FieldLogger, tr transport.Transport, store *Store, callbacks Callbacks) *Session {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Session{
		logger:    logger,
		transport: tr,
		store:     store,
		callbacks: callbacks,
		history:   game.NewHistory(0),
	}

	store.SetSyncRequester(func(gameID string) error {
		return tr.Send(transport.EventRequestGameState, transport.RequestGameStatePayload{GameID: gameID})
	})

	store.OnRevert(func(action game.PlayerAction) {
		if s.callbacks.OnActionReverted != nil {
			s.callbacks.OnActionReverted(action)
		}
	})

	tr.OnConnectionChange(func(connected bool) {
		store.SetConnectionState(connected, !connected)

		if !connected {
			s.mu.Lock()
			s.joined = false
			s.mu.Unlock()
		}
	})

	tr.On(transport.EventGameUpdated, s.handleGameUpdated)
	tr.On(transport.EventPlayerJoined, s.handlePlayerJoined)
	tr.On(transport.EventPlayerLeft, s.handlePlayerLeft)
	tr.On(transport.EventActionBroadcast, s.handleActionBroadcast)
	tr.On(transport.EventRoundStarted, s.handleRoundStarted)
	tr.On(transport.EventRoundEnded, s.handleRoundEnded)
	tr.On(transport.EventGameEnded, s.handleGameEnded)
	tr.On(transport.EventTimerUpdate, s.handleTimerUpdate)
	tr.On(transport.EventChatMessage, s.handleChatMessage)
	tr.On(transport.EventError, s.handleError)

	if tr.Connected() {
		store.SetConnectionState(true, false)
	}

	return s
}

// Join enters the game's remote room. Joining is idempotent: a second call
// for the same game is a no-op.
func (s *Session) Join(ctx context.Context, gameID, userID string) error {
	if !s.transport.Connected() {
		if err := s.transport.Connect(ctx); err != nil {
			return err
		}

		s.store.SetConnectionState(true, false)
	}

	s.mu.Lock()
	if s.joined && s.gameID == gameID {
		s.mu.Unlock()
		return nil
	}

	previous := ""
	if s.joined {
		previous = s.gameID
	}

	s.gameID = gameID
	s.userID = userID
	s.joined = true
	s.mu.Unlock()

	if previous != "" {
		// the previous game's snapshot and optimistic queue must not bleed
		// into the new room
		s.archive(s.store.ServerGame())
		s.store.Clear()

		if err := s.transport.Send(transport.EventLeaveGame, transport.JoinGamePayload{GameID: previous, UserID: userID}); err != nil {
			s.logger.WithError(err).WithField("game", previous).Warn("could not leave previous game")
		}
	}

	if err := s.transport.Send(transport.EventJoinGame, transport.JoinGamePayload{GameID: gameID, UserID: userID}); err != nil {
		s.mu.Lock()
		s.joined = false
		s.mu.Unlock()
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"game": gameID,
		"user": userID,
	}).Debug("joined game room")

	return nil
}

// Leave exits the remote room, archives the current game into the session
// history, and clears all transient reconciliation state
func (s *Session) Leave() error {
	s.mu.Lock()
	if !s.joined {
		s.mu.Unlock()
		return nil
	}

	gameID, userID := s.gameID, s.userID
	s.joined = false
	s.mu.Unlock()

	s.archive(s.store.ServerGame())
	s.store.Clear()

	return s.transport.Send(transport.EventLeaveGame, transport.JoinGamePayload{GameID: gameID, UserID: userID})
}

// SendAction validates the action against the merged view, enqueues it
// optimistically, and transmits it. It fails fast when disconnected so no
// orphaned optimistic state is left behind.
func (s *Session) SendAction(action game.PlayerAction) (string, error) {
	if !s.transport.Connected() {
		return "", transport.ErrNotConnected
	}

	if merged := s.store.MergedGame(); merged != nil {
		verdict := game.ValidateAction(merged, action.PlayerID, action.Action, action.Amount)
		if !verdict.Valid {
			return "", game.ValidationError(verdict.Reason)
		}

		if verdict.Warning != "" {
			s.logger.WithFields(logrus.Fields{
				"player": action.PlayerID,
				"action": action.Action,
			}).Warn(verdict.Warning)
		}
	}

	actionID := s.store.AddOptimisticAction(action)

	if err := s.transport.Send(transport.EventPlayerAction, action); err != nil {
		s.store.RevertOptimisticAction(actionID)
		return "", err
	}

	return actionID, nil
}

// Ready signals the server the player wants the next round
func (s *Session) Ready() error {
	s.mu.Lock()
	gameID, userID := s.gameID, s.userID
	s.mu.Unlock()

	return s.transport.Send(transport.EventReadyForNext, transport.ReadyPayload{GameID: gameID, PlayerID: userID})
}

// RequestSync asks the server for a fresh authoritative snapshot
func (s *Session) RequestSync() {
	s.mu.Lock()
	gameID := s.gameID
	s.mu.Unlock()

	s.store.RequestGameSync(gameID)
}

// Game returns the merged optimistic-over-authoritative view
func (s *Session) Game() *game.Game {
	return s.store.MergedGame()
}

// History returns the archive of games that ended during this session,
// newest first
func (s *Session) History() *game.History {
	return s.history
}

// archive records a game unless it is already the newest history entry
func (s *Session) archive(g *game.Game) {
	if g == nil {
		return
	}

	if last := s.history.Last(); last != nil && last.ID == g.ID {
		return
	}

	s.history.Add(g)
}

// IsConnected returns the transport connection state
func (s *Session) IsConnected() bool {
	return s.store.IsConnected()
}

// IsSyncing returns true while a snapshot request is outstanding
func (s *Session) IsSyncing() bool {
	return s.store.IsSyncing()
}

// JoinChat enters the game's chat room
func (s *Session) JoinChat() error {
	s.mu.Lock()
	gameID, userID := s.gameID, s.userID
	s.mu.Unlock()

	return s.transport.Send(transport.EventJoinChat, transport.ChatPayload{GameID: gameID, PlayerID: userID})
}

// LeaveChat exits the game's chat room
func (s *Session) LeaveChat() error {
	s.mu.Lock()
	gameID, userID := s.gameID, s.userID
	s.mu.Unlock()

	return s.transport.Send(transport.EventLeaveChat, transport.ChatPayload{GameID: gameID, PlayerID: userID})
}

// SendChatMessage posts a message to the game's chat room
func (s *Session) SendChatMessage(message string) error {
	s.mu.Lock()
	gameID, userID := s.gameID, s.userID
	s.mu.Unlock()

	return s.transport.Send(transport.EventSendChatMessage, transport.ChatPayload{
		GameID:   gameID,
		PlayerID: userID,
		Message:  message,
	})
}

func (s *Session) handleGameUpdated(payload json.RawMessage) {
	var g game.Game
	if err := json.Unmarshal(payload, &g); err != nil {
		s.logger.WithError(err).Error("could not decode game snapshot")
		return
	}

	s.acceptSnapshot(&g)

	if s.callbacks.OnGameUpdated != nil {
		s.callbacks.OnGameUpdated(cloneGame(&g))
	}
}

// cloneGame guards the stored snapshot against callback mutation
func cloneGame(g *game.Game) *game.Game {
	if g == nil {
		return nil
	}

	return g.Clone()
}

// acceptSnapshot runs the consistency check on an inbound snapshot before
// handing it to the store. A violation means the view can no longer be
// trusted; the snapshot is still applied and a fresh sync is requested.
func (s *Session) acceptSnapshot(g *game.Game) {
	if g.Status == game.StatusBetting || g.Status == game.StatusShowdown {
		if err := game.CheckConsistency(g); err != nil {
			s.logger.WithError(err).WithField("game", g.ID).
				Error("inbound snapshot failed consistency check, forcing resync")
			s.store.HandleServerUpdate(g)
			s.RequestSync()
			return
		}
	}

	s.store.HandleServerUpdate(g)
}

func (s *Session) handlePlayerJoined(payload json.RawMessage) {
	var p transport.PlayerJoinedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode player-joined")
		return
	}

	if p.Game != nil {
		s.acceptSnapshot(p.Game)
	}

	if s.callbacks.OnPlayerJoined != nil {
		s.callbacks.OnPlayerJoined(cloneGame(p.Game), p.Player)
	}
}

func (s *Session) handlePlayerLeft(payload json.RawMessage) {
	var p transport.PlayerLeftPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode player-left")
		return
	}

	if p.Game != nil {
		s.acceptSnapshot(p.Game)
	}

	if s.callbacks.OnPlayerLeft != nil {
		s.callbacks.OnPlayerLeft(cloneGame(p.Game), p.PlayerID)
	}
}

func (s *Session) handleActionBroadcast(payload json.RawMessage) {
	var action game.PlayerAction
	if err := json.Unmarshal(payload, &action); err != nil {
		s.logger.WithError(err).Error("could not decode action broadcast")
		return
	}

	if s.callbacks.OnActionBroadcast != nil {
		s.callbacks.OnActionBroadcast(action)
	}
}

func (s *Session) handleRoundStarted(payload json.RawMessage) {
	var p transport.RoundPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode round-started")
		return
	}

	if p.Game != nil {
		s.acceptSnapshot(p.Game)
	}

	if s.callbacks.OnRoundStarted != nil {
		s.callbacks.OnRoundStarted(cloneGame(p.Game))
	}
}

func (s *Session) handleRoundEnded(payload json.RawMessage) {
	var p transport.RoundPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode round-ended")
		return
	}

	if p.Game != nil {
		s.acceptSnapshot(p.Game)
	}

	if s.callbacks.OnRoundEnded != nil {
		s.callbacks.OnRoundEnded(cloneGame(p.Game), p.Winner)
	}
}

func (s *Session) handleGameEnded(payload json.RawMessage) {
	var p transport.RoundPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode game-ended")
		return
	}

	if p.Game != nil {
		s.acceptSnapshot(p.Game)
		s.archive(p.Game)
	}

	if s.callbacks.OnGameEnded != nil {
		s.callbacks.OnGameEnded(cloneGame(p.Game), p.Winner)
	}
}

func (s *Session) handleTimerUpdate(payload json.RawMessage) {
	var p transport.TimerUpdatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode timer-update")
		return
	}

	s.store.SetTimeRemaining(p.PlayerID, p.TimeRemaining)

	if s.callbacks.OnTimerUpdate != nil {
		s.callbacks.OnTimerUpdate(p.PlayerID, p.TimeRemaining)
	}
}

func (s *Session) handleChatMessage(payload json.RawMessage) {
	var p transport.ChatPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode chat message")
		return
	}

	if s.callbacks.OnChatMessage != nil {
		s.callbacks.OnChatMessage(p)
	}
}

func (s *Session) handleError(payload json.RawMessage) {
	var p transport.ErrorPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.logger.WithError(err).Error("could not decode error event")
		return
	}

	s.logger.WithField("message", p.Message).Warn("server reported an error")

	if s.callbacks.OnError != nil {
		s.callbacks.OnError(p.Message)
	}
}
