package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hearts/internal/deck"
)

// newLobbyGame seats four ready humans in a fresh lobby.
func newLobbyGame(t *testing.T) *Game {
	t.Helper()
	g := NewWithDeck("g1", deck.NewDeckWithSeed(42))
	names := []string{"alice", "bob", "carol", "dave"}
	for i, name := range names {
		require.NoError(t, g.AddPlayer(i, "u-"+name, name))
		require.NoError(t, g.ToggleReady(i))
	}
	return g
}

// card is shorthand for building cards from wire codes in tests.
func card(t *testing.T, code string) deck.Card {
	t.Helper()
	c, err := deck.ParseCard(code)
	require.NoError(t, err)
	return c
}

func cards(t *testing.T, codes ...string) []deck.Card {
	t.Helper()
	out := make([]deck.Card, len(codes))
	for i, code := range codes {
		out[i] = card(t, code)
	}
	return out
}

func TestAddPlayer(t *testing.T) {
	g := New("g1")

	require.NoError(t, g.AddPlayer(2, "u1", "alice"))
	assert.Equal(t, 2, g.LobbyLeader, "first occupied seat becomes lobby leader")

	assert.ErrorIs(t, g.AddPlayer(2, "u2", "bob"), ErrSeatTaken)
	assert.ErrorIs(t, g.AddPlayer(0, "u1", "alice"), ErrUserAlreadySeated)
	assert.ErrorIs(t, g.AddPlayer(4, "u3", "carol"), ErrUnknownSeat)
	assert.ErrorIs(t, g.AddPlayer(-1, "u3", "carol"), ErrUnknownSeat)

	require.NoError(t, g.AddPlayer(0, "u2", "bob"))
	assert.Equal(t, 2, g.LobbyLeader, "leader unchanged by later joins")
}

func TestRemovePlayerInLobby(t *testing.T) {
	g := New("g1")
	require.NoError(t, g.AddPlayer(1, "u1", "alice"))
	require.NoError(t, g.AddPlayer(3, "u2", "bob"))
	require.Equal(t, 1, g.LobbyLeader)

	require.NoError(t, g.RemovePlayer(1))
	assert.Nil(t, g.Seats[1])
	assert.Equal(t, 3, g.LobbyLeader, "leadership moves to lowest occupied seat")

	require.NoError(t, g.RemovePlayer(3))
	assert.Equal(t, -1, g.LobbyLeader)

	assert.ErrorIs(t, g.RemovePlayer(3), ErrUnknownSeat)
}

func TestRemovePlayerMidGameMarksDisconnected(t *testing.T) {
	g := newLobbyGame(t)
	require.NoError(t, g.Start())

	require.NoError(t, g.RemovePlayer(0))
	require.NotNil(t, g.Seats[0], "seat membership never changes mid-game")
	assert.False(t, g.Seats[0].IsConnected)
	assert.NotEqual(t, Abandoned, g.State)
}

func TestCanStart(t *testing.T) {
	g := New("g1")
	assert.False(t, g.CanStart())

	require.NoError(t, g.AddPlayer(0, "u1", "alice"))
	require.NoError(t, g.AddBot(1, "Bot 1"))
	require.NoError(t, g.AddBot(2, "Bot 2"))
	require.NoError(t, g.AddBot(3, "Bot 3"))
	assert.False(t, g.CanStart(), "human not ready yet")

	require.NoError(t, g.ToggleReady(0))
	assert.True(t, g.CanStart(), "bots count as ready")

	require.NoError(t, g.SetConnected(0, false))
	assert.False(t, g.CanStart(), "disconnected seat blocks start")
}

func TestStartDealsThirteenEach(t *testing.T) {
	g := newLobbyGame(t)
	require.NoError(t, g.Start())

	assert.Equal(t, Passing, g.State)
	assert.Equal(t, 1, g.Round)
	assert.Equal(t, PassLeft, g.PassDirection)
	for i, p := range g.Seats {
		assert.Len(t, p.Hand, 13, "seat %d", i)
	}
}

func TestStartNotReady(t *testing.T) {
	g := New("g1")
	require.NoError(t, g.AddPlayer(0, "u1", "alice"))
	assert.ErrorIs(t, g.Start(), ErrNotReady)

	started := newLobbyGame(t)
	require.NoError(t, started.Start())
	assert.ErrorIs(t, started.Start(), ErrNotReady, "start is lobby-only")
}

func TestDirectionForRound(t *testing.T) {
	assert.Equal(t, PassLeft, DirectionForRound(1))
	assert.Equal(t, PassRight, DirectionForRound(2))
	assert.Equal(t, PassAcross, DirectionForRound(3))
	assert.Equal(t, PassNone, DirectionForRound(4))
	assert.Equal(t, PassLeft, DirectionForRound(5))
}

func TestSeatOf(t *testing.T) {
	g := newLobbyGame(t)

	seat, ok := g.SeatOf("u-carol")
	require.True(t, ok)
	assert.Equal(t, 2, seat)

	_, ok = g.SeatOf("stranger")
	assert.False(t, ok)

	_, ok = g.SeatOf("")
	assert.False(t, ok, "bots have empty user ids and must never match")
}

func TestViewHidesOtherHands(t *testing.T) {
	g := newLobbyGame(t)
	require.NoError(t, g.Start())

	v := g.ViewFor("u-bob")
	assert.Equal(t, 1, v.ViewerSeat)
	for i, sv := range v.Seats {
		assert.Equal(t, 13, sv.HandCount, "seat %d", i)
		if i == 1 {
			assert.Len(t, sv.Hand, 13, "viewer sees own hand")
		} else {
			assert.Nil(t, sv.Hand, "seat %d hand must not leak", i)
		}
	}

	spectator := g.ViewFor("")
	assert.Equal(t, -1, spectator.ViewerSeat)
	for _, sv := range spectator.Seats {
		assert.Nil(t, sv.Hand)
	}
}
