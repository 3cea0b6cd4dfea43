package game

import (
	"fmt"
	"time"

	"gorpoker/internal/rng"
	"gorpoker/internal/util"
	"gorpoker/pkg/deck"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status is the lifecycle phase of a game
type Status string

// game status constants
const (
	StatusWaiting   Status = "waiting"
	StatusStarting  Status = "starting"
	StatusBetting   Status = "betting"
	StatusShowdown  Status = "showdown"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

var legalTransitions = map[Status][]Status{
	StatusWaiting:  {StatusStarting, StatusCancelled},
	StatusStarting: {StatusBetting, StatusCancelled},
	StatusBetting:  {StatusShowdown, StatusFinished, StatusCancelled},
	StatusShowdown: {StatusFinished},
}

// ValidTransition returns true if the phase transition is permitted.
// finished and cancelled are terminal.
func ValidTransition(from, to Status) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

type dealerAction int

const (
	dealerActionDeal dealerAction = iota
	dealerActionPayout
)

type pendingDealerAction struct {
	Action       dealerAction
	ExecuteAfter time.Time
}

// Game is one active match of Two-Card Indian Poker
type Game struct {
	ID         string `json:"id"`
	InviteCode string `json:"inviteCode"`
	Status     Status `json:"status"`

	CurrentRound int `json:"currentRound"`
	MaxPlayers   int `json:"maxPlayers"`
	Ante         int `json:"ante"`
	Pot          int `json:"pot"`

	// CurrentBet is the highest outstanding bet this round
	CurrentBet int `json:"currentBet"`

	// CurrentPlayerIndex indexes into Players; only meaningful while betting
	CurrentPlayerIndex int `json:"currentPlayerIndex"`

	// Players in seat order; seat order is turn order
	Players []*Player `json:"players"`

	// Deck holds the undealt remainder after the deal
	Deck []*deck.Card `json:"deck,omitempty"`

	// PlayersAtDeal is the seat count when cards were dealt; fixes the ante
	// portion of the pot for the rest of the hand
	PlayersAtDeal int `json:"playersAtDeal"`

	CreatedAt time.Time  `json:"createdAt"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`

	// Winner is the winning player's ID once the hand resolves
	Winner string `json:"winner,omitempty"`

	opts    Options
	logger  logrus.FieldLogger
	pending *pendingDealerAction
}

// NewGame returns a new game in the waiting phase
func NewGame(logger logrus.FieldLogger, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	g := &Game{
		ID:         uuid.New().String(),
		InviteCode: util.InviteCode(rng.Crypto{}),
		Status:     StatusWaiting,
		MaxPlayers: opts.MaxPlayers,
		Ante:       opts.Ante,
		Players:    make([]*Player, 0, opts.MaxPlayers),
		CreatedAt:  time.Now(),
		opts:       opts,
		logger:     logger,
	}

	g.log().WithFields(logrus.Fields{
		"game":   g.ID,
		"invite": g.InviteCode,
	}).Debug("game created")

	return g, nil
}

// Options returns the options the game was created with
func (g *Game) Options() Options {
	return g.opts
}

// log returns the game's logger.
// Games decoded from a snapshot have no logger wired in.
func (g *Game) log() logrus.FieldLogger {
	if g.logger == nil {
		return logrus.StandardLogger()
	}

	return g.logger
}

// Join seats a player in a waiting game
func (g *Game) Join(p *Player) error {
	if g.IsOver() {
		return ErrGameIsOver
	}

	if g.Status != StatusWaiting {
		return ValidationError("cannot join a game in progress")
	}

	if len(g.Players) >= g.MaxPlayers {
		return ErrGameFull
	}

	if p.Chips < g.Ante {
		return ValidationError("not enough chips to cover the ante")
	}

	p.Position = len(g.Players)
	g.Players = append(g.Players, p)

	g.log().WithFields(logrus.Fields{
		"game":   g.ID,
		"player": p.ID,
		"seat":   p.Position,
	}).Debug("player joined")

	return nil
}

// Start moves a waiting game to starting and schedules the deal.
// The deal itself runs on Tick() once the deal delay elapses.
func (g *Game) Start() error {
	if g.Status != StatusWaiting {
		return ErrIllegalTransition
	}

	if len(g.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	now := time.Now()
	g.Status = StatusStarting
	g.StartedAt = &now
	g.pending = &pendingDealerAction{
		Action:       dealerActionDeal,
		ExecuteAfter: now.Add(g.opts.DealDelay),
	}

	g.log().WithField("game", g.ID).Debug("game starting")
	return nil
}

// Deal assigns one card to each seated player and opens the betting round.
// The transition is atomic; the deal delay only gates when it fires.
func (g *Game) Deal() error {
	if g.Status != StatusStarting {
		return fmt.Errorf("cannot deal cards from status %s", g.Status)
	}

	d := deck.New()
	d.Shuffle(rng.Seed())

	pot := 0
	dealt := 0
	for _, p := range g.Players {
		if p.Chips < g.Ante {
			p.sitOut()
			continue
		}

		p.newRound(int(g.opts.TurnTimeout.Seconds()))

		card, err := d.Draw()
		if err != nil {
			return err
		}

		p.Card = card
		p.Chips -= g.Ante
		pot += g.Ante
		dealt++
	}

	if dealt < MinPlayers {
		return ErrNotEnoughPlayers
	}

	g.Pot = pot
	g.PlayersAtDeal = dealt
	g.CurrentBet = 0
	g.CurrentPlayerIndex = g.firstActiveIndex()
	g.CurrentRound = 1
	g.Deck = d.Cards
	g.Status = StatusBetting
	g.pending = nil

	g.log().WithFields(logrus.Fields{
		"game":    g.ID,
		"players": len(g.Players),
		"pot":     g.Pot,
	}).Debug("cards dealt")

	return nil
}

// Apply validates and applies a player action
func (g *Game) Apply(action PlayerAction) error {
	if verdict := ValidateAction(g, action.PlayerID, action.Action, action.Amount); !verdict.Valid {
		return ValidationError(verdict.Reason)
	}

	return g.ApplyUnchecked(action)
}

// ApplyUnchecked applies an action's effects without validating it first.
// It is the single shared routine behind both the authoritative reducer and
// the optimistic merge; the two must never drift.
func (g *Game) ApplyUnchecked(action PlayerAction) error {
	p := g.Player(action.PlayerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	switch action.Action {
	case Fold, AutoFold:
		p.IsFolded = true
	case Check:
		// no numeric effect
	case Call:
		delta := g.CurrentBet - p.CurrentBet
		p.CurrentBet = g.CurrentBet
		p.Chips -= delta
		g.Pot += delta
	case Bet, Raise:
		delta := action.Amount - p.CurrentBet
		p.CurrentBet = action.Amount
		p.Chips -= delta
		g.Pot += delta
		if action.Amount > g.CurrentBet {
			g.CurrentBet = action.Amount
		}
	default:
		return fmt.Errorf("unknown action: %s", action.Action)
	}

	p.LastAction = action.Action

	g.log().WithFields(logrus.Fields{
		"game":   g.ID,
		"player": p.ID,
	}).Debug(action.Action.LogMessage(action.Amount))

	g.roundEndCheck()
	return nil
}

// roundEndCheck decides whether the betting round is over and either enters
// the showdown or advances the turn to the next active player
func (g *Game) roundEndCheck() {
	active := g.ActivePlayers()
	if len(active) <= 1 {
		g.enterShowdown()
		return
	}

	allActed := true
	allMatched := true
	for _, p := range active {
		if !p.HasActed() {
			allActed = false
		}

		if p.CurrentBet != g.CurrentBet {
			allMatched = false
		}
	}

	if allActed && allMatched {
		g.enterShowdown()
		return
	}

	g.advanceTurn()
}

// firstActiveIndex returns the lowest seat index still in the hand
func (g *Game) firstActiveIndex() int {
	for i, p := range g.Players {
		if p.InHand() {
			return i
		}
	}

	return 0
}

// advanceTurn moves the turn index to the next non-folded seat, wrapping
func (g *Game) advanceTurn() {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		index := (g.CurrentPlayerIndex + i) % n
		if g.Players[index].InHand() {
			g.CurrentPlayerIndex = index
			return
		}
	}
}

// enterShowdown resolves the winner and schedules the payout.
// With exactly one active player, that player wins by default. Otherwise the
// highest card value wins; equal values fall back to the fixed suit order
// (spades > hearts > diamonds > clubs) so a hand always has a single winner.
func (g *Game) enterShowdown() {
	g.Status = StatusShowdown

	var winner *Player
	for _, p := range g.ActivePlayers() {
		if winner == nil {
			winner = p
			continue
		}

		if p.Card != nil && winner.Card != nil && p.Card.Beats(winner.Card) {
			winner = p
		}
	}

	if winner != nil {
		g.Winner = winner.ID
	}

	g.pending = &pendingDealerAction{
		Action:       dealerActionPayout,
		ExecuteAfter: time.Now().Add(g.opts.RevealDelay),
	}

	g.log().WithFields(logrus.Fields{
		"game":   g.ID,
		"winner": g.Winner,
		"pot":    g.Pot,
	}).Debug("showdown")
}

// payout awards the pot to the winner and finishes the game
func (g *Game) payout() {
	if winner := g.Player(g.Winner); winner != nil {
		winner.Chips += g.Pot
	}

	now := time.Now()
	g.Pot = 0
	g.Status = StatusFinished
	g.EndedAt = &now
	g.pending = nil

	g.log().WithFields(logrus.Fields{
		"game":   g.ID,
		"winner": g.Winner,
	}).Debug("game finished")
}

// Reset begins a fresh hand in a finished game: the pot and cards are
// cleared, the players keep their chips, and the game returns to waiting so
// Start can run the next deal. Players who can no longer cover the ante are
// benched. Note this is not a phase transition within the current hand;
// finished stays terminal for ValidTransition.
func (g *Game) Reset() error {
	if g.Status != StatusFinished {
		return ValidationError("only a finished game can be reset")
	}

	eligible := 0
	for _, p := range g.Players {
		if p.Chips < g.Ante {
			p.sitOut()
			continue
		}

		p.newRound(0)
		eligible++
	}

	if eligible < MinPlayers {
		return ErrNotEnoughPlayers
	}

	g.Status = StatusWaiting
	g.CurrentRound = 0
	g.Pot = 0
	g.CurrentBet = 0
	g.CurrentPlayerIndex = 0
	g.PlayersAtDeal = 0
	g.Deck = nil
	g.Winner = ""
	g.StartedAt = nil
	g.EndedAt = nil
	g.pending = nil

	g.log().WithField("game", g.ID).Debug("game reset for a new hand")
	return nil
}

// Cancel aborts a game that has not finished
func (g *Game) Cancel() error {
	if !ValidTransition(g.Status, StatusCancelled) {
		return ErrIllegalTransition
	}

	now := time.Now()
	g.Status = StatusCancelled
	g.EndedAt = &now
	g.pending = nil

	g.log().WithField("game", g.ID).Debug("game cancelled")
	return nil
}

// Interval determines how often Tick() should be called
func (g *Game) Interval() time.Duration {
	return 100 * time.Millisecond
}

// Tick executes any delay-gated transition whose time has come.
// Returns true if the game state changed.
func (g *Game) Tick() (bool, error) {
	if g.pending == nil {
		return false, nil
	}

	if time.Now().Before(g.pending.ExecuteAfter) {
		return false, nil
	}

	action := g.pending.Action
	// clear before executing so transitions can schedule new ones
	g.pending = nil

	switch action {
	case dealerActionDeal:
		if err := g.Deal(); err != nil {
			return false, err
		}
	case dealerActionPayout:
		g.payout()
	default:
		panic(fmt.Sprintf("unknown dealer action: %d", action))
	}

	return true, nil
}

// Player returns the player with the given ID, or nil
func (g *Game) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil outside betting
func (g *Game) CurrentPlayer() *Player {
	if g.Status != StatusBetting {
		return nil
	}

	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}

	return g.Players[g.CurrentPlayerIndex]
}

// ActivePlayers returns the players still in the hand, in seat order
func (g *Game) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.InHand() {
			active = append(active, p)
		}
	}

	return active
}

// SetTimeRemaining records an advisory turn countdown for a player
func (g *Game) SetTimeRemaining(playerID string, seconds int) {
	if p := g.Player(playerID); p != nil {
		p.TimeRemaining = seconds
	}
}

// IsOver returns true if the game reached a terminal status
func (g *Game) IsOver() bool {
	return g.Status == StatusFinished || g.Status == StatusCancelled
}

// Clone returns a deep copy of the game's entity state.
// The clone carries no scheduled dealer action.
func (g *Game) Clone() *Game {
	cp := *g
	cp.pending = nil

	cp.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp.Players[i] = p.Clone()
	}

	// cards are immutable once created
	cp.Deck = append([]*deck.Card{}, g.Deck...)

	if g.StartedAt != nil {
		t := *g.StartedAt
		cp.StartedAt = &t
	}

	if g.EndedAt != nil {
		t := *g.EndedAt
		cp.EndedAt = &t
	}

	return &cp
}
