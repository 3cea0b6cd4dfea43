package game

import "sync"

// History is a bounded archive of completed games, newest first.
// Safe for concurrent use.
type History struct {
	mu    sync.Mutex
	games []*Game
	limit int
}

// NewHistory returns a history that keeps at most limit games
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 50
	}

	return &History{
		games: make([]*Game, 0, limit),
		limit: limit,
	}
}

// Add archives a game. The oldest entry is dropped once the limit is hit.
func (h *History) Add(g *Game) {
	if g == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.games = append([]*Game{g}, h.games...)
	if len(h.games) > h.limit {
		h.games = h.games[:h.limit]
	}
}

// Last returns the most recently archived game, or nil
func (h *History) Last() *Game {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.games) == 0 {
		return nil
	}

	return h.games[0]
}

// All returns the archived games, newest first
func (h *History) All() []*Game {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]*Game{}, h.games...)
}

// Len returns the number of archived games
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.games)
}
