// Package store persists game history. The live game in memory stays
// authoritative: callers log write failures and play on, so every
// method here is best-effort from the engine's point of view.
package store

import "github.com/lox/hearts/internal/game"

// Result is one player's final standing in a finished game.
type Result struct {
	GameID     string
	UserID     string
	Name       string
	Seat       int
	TotalScore int
	Won        bool
}

// Store is the persistence collaborator for the game manager.
//
// SaveTrick must be idempotent: re-submitting the same (game, round,
// trick) key is detected and skipped. SaveResults replaces any prior
// rows for the game.
type Store interface {
	SaveGame(g *game.Game) error
	SavePlayers(g *game.Game) error
	SaveTrick(gameID string, round, trickNumber, winner, points int, plays []game.TrickPlay) error
	SaveResults(g *game.Game) error
	RecentResults(limit int) ([]Result, error)
	Close() error
}

// Noop discards all writes, for tests and storage-less deployments.
type Noop struct{}

func (Noop) SaveGame(*game.Game) error { return nil }

func (Noop) SavePlayers(*game.Game) error { return nil }

func (Noop) SaveTrick(string, int, int, int, int, []game.TrickPlay) error {
	return nil
}

func (Noop) SaveResults(*game.Game) error { return nil }

func (Noop) RecentResults(int) ([]Result, error) { return nil, nil }

func (Noop) Close() error { return nil }
