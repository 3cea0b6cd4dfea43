package game

import (
	"errors"
	"time"
)

// ante bounds
const (
	MinAnte = 10
	MaxAnte = 1000
)

// player count bounds
const (
	MinPlayers = 2
	MaxSeats   = 6
)

// Options configures how a game of Two-Card Indian Poker is played
type Options struct {
	// Ante is the forced contribution per player before the deal
	Ante int

	// MaxPlayers is the seat count for this game (2 to 6)
	MaxPlayers int

	// TurnTimeout is the advisory per-turn countdown
	TurnTimeout time.Duration

	// DealDelay gates the starting to betting transition
	DealDelay time.Duration

	// RevealDelay gates the showdown to finished transition
	RevealDelay time.Duration
}

// DefaultOptions returns the default game options
func DefaultOptions() Options {
	return Options{
		Ante:        10,
		MaxPlayers:  MaxSeats,
		TurnTimeout: 30 * time.Second,
		DealDelay:   2 * time.Second,
		RevealDelay: 3 * time.Second,
	}
}

func validateOptions(opts Options) error {
	if opts.Ante < MinAnte || opts.Ante > MaxAnte {
		return errors.New("ante must be between 10 and 1000")
	}

	if opts.MaxPlayers < MinPlayers || opts.MaxPlayers > MaxSeats {
		return errors.New("max players must be between 2 and 6")
	}

	if opts.TurnTimeout < 0 || opts.DealDelay < 0 || opts.RevealDelay < 0 {
		return errors.New("timeouts cannot be negative")
	}

	return nil
}
