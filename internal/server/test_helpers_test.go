package server

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/store"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func newTestManager(t *testing.T) *GameManager {
	t.Helper()
	return NewGameManager(store.Noop{}, game.FirstLegal{}, testLogger())
}

// seatFullLobby seats one human leader and three bots, all ready.
// Returns the lobby game id.
func seatFullLobby(t *testing.T, m *GameManager, leader string) string {
	t.Helper()

	lobbyID, err := m.TakeSeat(leader, leader, 0)
	if err != nil {
		t.Fatalf("failed to seat leader: %v", err)
	}
	for seat := 1; seat < game.NumSeats; seat++ {
		if _, err := m.AddBot(leader, seat); err != nil {
			t.Fatalf("failed to add bot to seat %d: %v", seat, err)
		}
	}
	if _, err := m.ToggleReady(leader); err != nil {
		t.Fatalf("failed to ready leader: %v", err)
	}
	return lobbyID
}
