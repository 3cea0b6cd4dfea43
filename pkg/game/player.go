package game

import (
	"gorpoker/pkg/deck"
)

// Player is one seat in a game
type Player struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	WalletAddress string `json:"walletAddress"`

	// Position is the seat index; stable for the game's lifetime
	Position int `json:"position"`

	// Card is the player's single card; nil before the deal
	Card *deck.Card `json:"card,omitempty"`

	Chips      int `json:"chips"`
	CurrentBet int `json:"currentBet"`

	IsActive bool `json:"isActive"`
	IsFolded bool `json:"isFolded"`

	// LastAction is empty until the player acts this round
	LastAction Action `json:"lastAction,omitempty"`

	// TimeRemaining is the advisory seconds left in the current turn
	TimeRemaining int `json:"timeRemaining"`

	IsConnected bool `json:"isConnected"`
}

// NewPlayer returns a new seated player
func NewPlayer(id, userID, username, walletAddress string, position, chips int) *Player {
	return &Player{
		ID:            id,
		UserID:        userID,
		Username:      username,
		WalletAddress: walletAddress,
		Position:      position,
		Chips:         chips,
		IsActive:      true,
		IsConnected:   true,
	}
}

// InHand returns true if the player has not folded and is active
func (p *Player) InHand() bool {
	return p.IsActive && !p.IsFolded
}

// HasActed returns true if the player acted this round
func (p *Player) HasActed() bool {
	return p.LastAction != ""
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	if p.Card != nil {
		cp.Card = p.Card.Clone()
	}

	return &cp
}

func (p *Player) newRound(turnTimeout int) {
	p.Card = nil
	p.CurrentBet = 0
	p.IsFolded = false
	p.IsActive = true
	p.LastAction = ""
	p.TimeRemaining = turnTimeout
}

// sitOut benches a player who cannot cover the ante. The seat is kept so
// positions stay stable.
func (p *Player) sitOut() {
	p.Card = nil
	p.CurrentBet = 0
	p.IsFolded = true
	p.IsActive = false
	p.LastAction = ""
	p.TimeRemaining = 0
}
