package game

import (
	"fmt"
)

// Verdict is the result of validating a proposed action.
// Warning is advisory and never blocks the action.
type Verdict struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Warning string `json:"warning,omitempty"`
}

func invalid(reason string) Verdict {
	return Verdict{Reason: reason}
}

func valid(warning string) Verdict {
	return Verdict{Valid: true, Warning: warning}
}

// ValidateAction decides whether a proposed player action is legal given the
// current game state. It is pure; callers may run it client-side before
// transmitting and the authoritative side runs the same rules.
func ValidateAction(g *Game, playerID string, action Action, amount int) Verdict {
	if !action.IsValid() {
		return invalid(fmt.Sprintf("unknown action: %s", action))
	}

	p := g.Player(playerID)
	if p == nil {
		return invalid("player is not in this game")
	}

	if g.Status != StatusBetting {
		return invalid("game is not in the betting phase")
	}

	if p.IsFolded {
		return invalid("player has already folded")
	}

	if !p.IsActive {
		return invalid("player is not active")
	}

	current := g.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return invalid("not your turn")
	}

	switch action {
	case Check:
		if g.CurrentBet != 0 && p.CurrentBet != g.CurrentBet {
			return invalid("cannot check a live bet")
		}

	case Call:
		if g.CurrentBet == 0 {
			return invalid("nothing to call")
		}

		if p.CurrentBet >= g.CurrentBet {
			return invalid("nothing to call")
		}

		if g.CurrentBet-p.CurrentBet > p.Chips {
			return invalid("not enough chips to call")
		}

	case Bet:
		if g.CurrentBet != 0 {
			return invalid("a bet is live, raise instead")
		}

		if amount < g.Ante {
			return invalid(fmt.Sprintf("bet must be at least the ante (%d)", g.Ante))
		}

		if amount > p.Chips {
			return invalid("not enough chips")
		}

	case Raise:
		if g.CurrentBet == 0 {
			return invalid("no bet to raise, bet instead")
		}

		if amount <= g.CurrentBet {
			return invalid("raise must exceed the current bet")
		}

		if amount < g.CurrentBet*2 {
			return invalid(fmt.Sprintf("minimum raise is %d", g.CurrentBet*2))
		}

		if amount > p.Chips+p.CurrentBet {
			return invalid("not enough chips")
		}

	case Fold, AutoFold:
		// always legal for an eligible actor
	}

	return valid(actionWarning(g, p, action, amount))
}

// actionWarning returns a non-blocking warning for a legal action
func actionWarning(g *Game, p *Player, action Action, amount int) string {
	if action.IsFold() && g.CurrentBet-p.CurrentBet <= 0 {
		return "folding when a check was available"
	}

	if action == Bet || action == Raise {
		committed := amount - p.CurrentBet
		if p.Chips > 0 && committed*5 >= p.Chips*4 {
			return "committing 80% or more of your stack"
		}
	}

	return ""
}

// CheckConsistency verifies whole-game invariants. A non-nil error indicates
// client/server divergence or a logic bug; callers should force a resync
// rather than patch the state.
func CheckConsistency(g *Game) error {
	if len(g.Players) < MinPlayers || len(g.Players) > g.MaxPlayers {
		return PlayerCountError{Min: MinPlayers, Max: g.MaxPlayers, Got: len(g.Players)}
	}

	committed := 0
	for _, p := range g.Players {
		if p.Chips < 0 {
			return fmt.Errorf("player %s has negative chips (%d)", p.ID, p.Chips)
		}

		committed += p.CurrentBet
	}

	if g.Status == StatusBetting || g.Status == StatusShowdown {
		expected := committed + g.Ante*g.PlayersAtDeal
		if g.Pot != expected {
			return fmt.Errorf("pot %d does not match committed bets plus antes (%d)", g.Pot, expected)
		}
	}

	if g.Status == StatusBetting {
		if len(g.ActivePlayers()) < 2 {
			return fmt.Errorf("betting with fewer than two active players")
		}

		if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
			return fmt.Errorf("current player index %d out of range", g.CurrentPlayerIndex)
		}

		if !g.Players[g.CurrentPlayerIndex].InHand() {
			return fmt.Errorf("current player index %d refers to a folded player", g.CurrentPlayerIndex)
		}
	}

	if g.Status == StatusShowdown {
		for _, p := range g.ActivePlayers() {
			if p.Card == nil {
				return fmt.Errorf("player %s reached showdown without a card", p.ID)
			}
		}
	}

	return nil
}
