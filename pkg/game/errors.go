package game

import (
	"errors"
	"fmt"
)

// ErrGameIsOver is returned when an action is attempted on an ended game
var ErrGameIsOver = errors.New("game is over")

// ErrPlayerNotFound is returned when a player is not in the game
var ErrPlayerNotFound = errors.New("player not found")

// ErrNotEnoughPlayers is returned when there aren't enough players
var ErrNotEnoughPlayers = errors.New("need at least two players")

// ErrGameFull is returned when a player tries to join a full game
var ErrGameFull = errors.New("game is full")

// ErrIllegalTransition is returned on a phase transition that is not permitted
var ErrIllegalTransition = errors.New("illegal phase transition")

// PlayerCountError is an error on the number of players in the game
type PlayerCountError struct {
	Min int
	Max int
	Got int
}

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d-%d players, got %d", p.Min, p.Max, p.Got)
}

// ValidationError is an error from the action validator that is safe to show a player
type ValidationError string

func (v ValidationError) Error() string {
	return string(v)
}
