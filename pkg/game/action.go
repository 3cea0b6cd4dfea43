package game

import (
	"fmt"
	"time"
)

// Action represents an action a player can take
type Action string

// action constants
const (
	Check    Action = "check"
	Bet      Action = "bet"
	Call     Action = "call"
	Raise    Action = "raise"
	Fold     Action = "fold"
	AutoFold Action = "auto-fold"
)

var allowedActions = map[Action]bool{
	Check:    true,
	Bet:      true,
	Call:     true,
	Raise:    true,
	Fold:     true,
	AutoFold: true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Check:
		return "Check"
	case Bet:
		return "Bet"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	case Fold:
		return "Fold"
	case AutoFold:
		return "Auto-fold"
	}

	panic("unknown action")
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// IsFold returns true for either fold variant
func (a Action) IsFold() bool {
	return a == Fold || a == AutoFold
}

// RequiresAmount returns true if the action must carry an amount
func (a Action) RequiresAmount() bool {
	return a == Bet || a == Raise
}

// LogMessage returns a message formatted for the game log
func (a Action) LogMessage(amount int) string {
	switch a {
	case Check:
		return "checked"
	case Bet:
		return fmt.Sprintf("bet %d GOR", amount)
	case Call:
		return fmt.Sprintf("called %d GOR", amount)
	case Raise:
		return fmt.Sprintf("raised to %d GOR", amount)
	case Fold:
		return "folded"
	case AutoFold:
		return "folded (time expired)"
	}

	return ""
}

// PlayerAction is one proposed or confirmed state transition
// Amount is only meaningful for bet and raise
type PlayerAction struct {
	PlayerID  string    `json:"playerId"`
	Action    Action    `json:"action"`
	Amount    int       `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPlayerAction returns a timestamped player action
func NewPlayerAction(playerID string, action Action, amount int) PlayerAction {
	return PlayerAction{
		PlayerID:  playerID,
		Action:    action,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}
