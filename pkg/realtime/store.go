package realtime

import (
	"sync"
	"time"

	"gorpoker/pkg/game"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// default reconciliation timing
const (
	DefaultActionTimeout = 5 * time.Second
	DefaultConfirmGrace  = time.Second
)

// OptimisticAction wraps a player action that was applied locally but not
// yet confirmed by the server
type OptimisticAction struct {
	ID        string
	Action    game.PlayerAction
	Timestamp time.Time
	Confirmed bool

	revertTimer *time.Timer
	pruneTimer  *time.Timer
}

// StoreOptions configures reconciliation timing
type StoreOptions struct {
	// ActionTimeout bounds how long an optimistic action may wait for
	// confirmation before it is reverted
	ActionTimeout time.Duration

	// ConfirmGrace is how long a confirmed action lingers in the queue so
	// the view doesn't visibly pop when it is pruned
	ConfirmGrace time.Duration
}

// DefaultStoreOptions returns the default reconciliation timing
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		ActionTimeout: DefaultActionTimeout,
		ConfirmGrace:  DefaultConfirmGrace,
	}
}

// Store holds the last authoritative game snapshot plus the queue of
// unconfirmed optimistic actions, and produces the merged view on demand.
// The snapshot and the queue are owned exclusively by the store; all
// mutation goes through its methods.
type Store struct {
	logger logrus.FieldLogger
	opts   StoreOptions

	mu           sync.Mutex
	connected    bool
	reconnecting bool
	connectedAt  time.Time
	syncPending  bool
	lastSyncAt   time.Time
	snapshot     *game.Game
	queue        []*OptimisticAction

	onRevert      func(action game.PlayerAction)
	syncRequester func(gameID string) error
}

// NewStore returns a new reconciliation store
func NewStore(logger logrus.FieldLogger, opts StoreOptions) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultActionTimeout
	}

	if opts.ConfirmGrace <= 0 {
		opts.ConfirmGrace = DefaultConfirmGrace
	}

	return &Store{
		logger: logger,
		opts:   opts,
	}
}

// OnRevert registers a callback fired when an optimistic action times out
// or is explicitly reverted. The revert is a non-fatal warning, not an error.
func (s *Store) OnRevert(fn func(action game.PlayerAction)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onRevert = fn
}

// SetSyncRequester wires the func used to ask the transport for a snapshot
func (s *Store) SetSyncRequester(fn func(gameID string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.syncRequester = fn
}

// SetConnectionState updates the connection flags
func (s *Store) SetConnectionState(connected, reconnecting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if connected && !s.connected {
		s.connectedAt = time.Now()
	}

	s.connected = connected
	s.reconnecting = reconnecting
}

// IsConnected returns the connection flag
func (s *Store) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}

// IsReconnecting returns the reconnecting flag
func (s *Store) IsReconnecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reconnecting
}

// IsSyncing returns true while a requested snapshot is outstanding
func (s *Store) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.syncPending
}

// LastSyncAt returns when the last authoritative snapshot arrived
func (s *Store) LastSyncAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSyncAt
}

// UpdateServerGameState replaces the authoritative snapshot
func (s *Store) UpdateServerGameState(g *game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = g
	s.syncPending = false
	s.lastSyncAt = time.Now()
}

// ServerGame returns the last authoritative snapshot without any optimistic
// actions applied
func (s *Store) ServerGame() *game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot
}

// AddOptimisticAction enqueues a speculative action and arms its revert
// timer. The returned ID correlates later confirm/revert calls.
func (s *Store) AddOptimisticAction(action game.PlayerAction) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &OptimisticAction{
		ID:        uuid.New().String(),
		Action:    action,
		Timestamp: time.Now(),
	}

	id := entry.ID
	entry.revertTimer = time.AfterFunc(s.opts.ActionTimeout, func() {
		s.revertWithWarning(id)
	})

	s.queue = append(s.queue, entry)

	s.logger.WithFields(logrus.Fields{
		"action":   action.Action,
		"player":   action.PlayerID,
		"actionId": id,
	}).Debug("optimistic action queued")

	return id
}

// ConfirmOptimisticAction cancels the revert timer and marks the action
// confirmed. The entry is pruned after the grace period so the view doesn't
// visibly pop.
func (s *Store) ConfirmOptimisticAction(actionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.confirmLocked(actionID)
}

func (s *Store) confirmLocked(actionID string) {
	entry := s.find(actionID)
	if entry == nil || entry.Confirmed {
		return
	}

	entry.revertTimer.Stop()
	entry.revertTimer = nil
	entry.Confirmed = true
	entry.pruneTimer = time.AfterFunc(s.opts.ConfirmGrace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.remove(actionID)
	})

	s.logger.WithField("actionId", actionID).Debug("optimistic action confirmed")
}

// RevertOptimisticAction cancels any pending timer and removes the entry
// immediately
func (s *Store) RevertOptimisticAction(actionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.find(actionID)
	if entry == nil {
		return
	}

	if entry.revertTimer != nil {
		entry.revertTimer.Stop()
		entry.revertTimer = nil
	}

	if entry.pruneTimer != nil {
		entry.pruneTimer.Stop()
		entry.pruneTimer = nil
	}

	s.remove(actionID)
}

// revertWithWarning is the revert-timer path: the action went unconfirmed
// for the full timeout and is treated as possibly failed
func (s *Store) revertWithWarning(actionID string) {
	s.mu.Lock()

	entry := s.find(actionID)
	if entry == nil || entry.Confirmed {
		s.mu.Unlock()
		return
	}

	entry.revertTimer = nil
	s.remove(actionID)
	fn := s.onRevert
	action := entry.Action
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"actionId": actionID,
		"action":   action.Action,
	}).Warn("optimistic action unconfirmed, reverting")

	if fn != nil {
		fn(action)
	}
}

// HandleServerUpdate confirms any optimistic actions the incoming snapshot
// already reflects, then replaces the snapshot
func (s *Store) HandleServerUpdate(g *game.Game) {
	s.mu.Lock()

	for _, entry := range s.queue {
		if entry.Confirmed {
			continue
		}

		if p := g.Player(entry.Action.PlayerID); p != nil && p.LastAction == entry.Action.Action {
			s.confirmLocked(entry.ID)
		}
	}

	s.snapshot = g
	s.syncPending = false
	s.lastSyncAt = time.Now()
	s.mu.Unlock()
}

// MergedGame folds the unconfirmed optimistic actions, in enqueue order, on
// top of the authoritative snapshot. The merge is recomputed on every call
// and never cached, so a superseding snapshot always wins.
func (s *Store) MergedGame() *game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return nil
	}

	merged := s.snapshot.Clone()
	for _, entry := range s.queue {
		if entry.Confirmed {
			continue
		}

		if err := merged.ApplyUnchecked(entry.Action); err != nil {
			s.logger.WithError(err).WithField("actionId", entry.ID).
				Warn("could not apply optimistic action to merge")
		}
	}

	return merged
}

// PendingActions returns the IDs of unconfirmed actions, in enqueue order
func (s *Store) PendingActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.queue))
	for _, entry := range s.queue {
		if !entry.Confirmed {
			ids = append(ids, entry.ID)
		}
	}

	return ids
}

// QueueLen returns the number of queued actions, confirmed entries included
func (s *Store) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

// SetTimeRemaining records an advisory turn countdown on the snapshot
func (s *Store) SetTimeRemaining(playerID string, seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil {
		s.snapshot.SetTimeRemaining(playerID, seconds)
	}
}

// RequestGameSync marks sync pending and asks the transport for a full
// snapshot. Not being connected is a no-op warning, not an error.
func (s *Store) RequestGameSync(gameID string) {
	s.mu.Lock()
	connected := s.connected
	requester := s.syncRequester
	if connected && requester != nil {
		s.syncPending = true
	}
	s.mu.Unlock()

	if !connected || requester == nil {
		s.logger.WithField("game", gameID).Warn("cannot request sync while disconnected")
		return
	}

	if err := requester(gameID); err != nil {
		s.logger.WithError(err).WithField("game", gameID).Error("sync request failed")

		s.mu.Lock()
		s.syncPending = false
		s.mu.Unlock()
	}
}

// Clear drops the snapshot and every queued optimistic action. Timers are
// stopped without firing the revert callback.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.queue {
		if entry.revertTimer != nil {
			entry.revertTimer.Stop()
		}

		if entry.pruneTimer != nil {
			entry.pruneTimer.Stop()
		}
	}

	s.queue = nil
	s.snapshot = nil
	s.syncPending = false
}

func (s *Store) find(actionID string) *OptimisticAction {
	for _, entry := range s.queue {
		if entry.ID == actionID {
			return entry
		}
	}

	return nil
}

func (s *Store) remove(actionID string) {
	for i, entry := range s.queue {
		if entry.ID == actionID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}
