package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/hearts/internal/deck"
)

// passingGame builds a game in the passing phase with rigged 4-card
// hands (pass 3, keep 1, receive 3).
func passingGame(t *testing.T, hands [NumSeats][]string, direction PassDirection) *Game {
	t.Helper()
	g := NewWithDeck("g1", deck.NewDeckWithSeed(1))
	names := []string{"alice", "bob", "carol", "dave"}
	for i, name := range names {
		g.Seats[i] = &Player{
			UserID:      "u-" + name,
			Name:        name,
			IsConnected: true,
			Hand:        cards(t, hands[i]...),
		}
	}
	g.State = Passing
	g.Round = 1
	g.PassDirection = direction
	g.TrickLeader = -1
	g.LobbyLeader = 0
	return g
}

func TestPassCardsValidation(t *testing.T) {
	g := passingGame(t, [NumSeats][]string{
		{"2C", "3C", "4C", "5C"},
		{"2D", "3D", "4D", "5D"},
		{"2S", "3S", "4S", "5S"},
		{"2H", "3H", "4H", "5H"},
	}, PassLeft)

	_, err := g.PassCards(0, cards(t, "2C", "3C"))
	assert.ErrorIs(t, err, ErrWrongCardCount)

	_, err = g.PassCards(0, cards(t, "2C", "3C", "9H"))
	assert.ErrorIs(t, err, ErrCardNotHeld)

	_, err = g.PassCards(0, cards(t, "2C", "2C", "2C"))
	assert.ErrorIs(t, err, ErrCardNotHeld, "duplicates are not three distinct held cards")

	_, err = g.PassCards(4, cards(t, "2C", "3C", "4C"))
	assert.ErrorIs(t, err, ErrUnknownSeat)

	g.State = Playing
	_, err = g.PassCards(0, cards(t, "2C", "3C", "4C"))
	assert.ErrorIs(t, err, ErrWrongPhase)

	g.State = Passing
	g.PassDirection = PassNone
	_, err = g.PassCards(0, cards(t, "2C", "3C", "4C"))
	assert.ErrorIs(t, err, ErrNoPassThisRound)
}

func TestPassCardsStagedUntilAllCommit(t *testing.T) {
	g := passingGame(t, [NumSeats][]string{
		{"2C", "3C", "4C", "5C"},
		{"2D", "3D", "4D", "5D"},
		{"2S", "3S", "4S", "5S"},
		{"2H", "3H", "4H", "5H"},
	}, PassLeft)

	done, err := g.PassCards(0, cards(t, "3C", "4C", "5C"))
	require.NoError(t, err)
	assert.False(t, done)

	// Committed cards stay visible in the owner's hand until everyone
	// has committed.
	assert.Len(t, g.Seats[0].Hand, 4)
	assert.True(t, g.Seats[0].HasPassed)
	assert.Equal(t, Passing, g.State)

	for seat, picks := range map[int][]deck.Card{
		1: cards(t, "3D", "4D", "5D"),
		2: cards(t, "3S", "4S", "5S"),
	} {
		done, err = g.PassCards(seat, picks)
		require.NoError(t, err)
		assert.False(t, done)
	}

	done, err = g.PassCards(3, cards(t, "3H", "4H", "5H"))
	require.NoError(t, err)
	assert.True(t, done, "fourth commit triggers the exchange")
	assert.Equal(t, Playing, g.State)
}

func TestPassExchangeLeft(t *testing.T) {
	g := passingGame(t, [NumSeats][]string{
		{"2C", "3C", "4C", "5C"},
		{"2D", "3D", "4D", "5D"},
		{"2S", "3S", "4S", "5S"},
		{"2H", "3H", "4H", "5H"},
	}, PassLeft)

	passes := [NumSeats][]deck.Card{
		cards(t, "3C", "4C", "5C"),
		cards(t, "3D", "4D", "5D"),
		cards(t, "3S", "4S", "5S"),
		cards(t, "3H", "4H", "5H"),
	}
	for seat, picks := range passes {
		_, err := g.PassCards(seat, picks)
		require.NoError(t, err)
	}

	// Left: seat -> seat+1. Hands re-sorted, pending state cleared.
	assert.Equal(t, cards(t, "2C", "3H", "4H", "5H"), g.Seats[0].Hand)
	assert.Equal(t, cards(t, "3C", "4C", "5C", "2D"), g.Seats[1].Hand)
	assert.Equal(t, cards(t, "3D", "4D", "5D", "2S"), g.Seats[2].Hand)
	assert.Equal(t, cards(t, "3S", "4S", "5S", "2H"), g.Seats[3].Hand)

	for i, p := range g.Seats {
		assert.Nil(t, p.PendingPass, "seat %d", i)
		assert.False(t, p.HasPassed, "seat %d", i)
	}

	assert.Equal(t, Playing, g.State)
	assert.Equal(t, 0, g.TrickLeader, "two of clubs holder leads")
}

func TestPassExchangeDirections(t *testing.T) {
	for _, tt := range []struct {
		direction PassDirection
		// seat 1's cards end up at this seat
		receiver int
	}{
		{PassLeft, 2},
		{PassRight, 0},
		{PassAcross, 3},
	} {
		t.Run(tt.direction.String(), func(t *testing.T) {
			g := passingGame(t, [NumSeats][]string{
				{"2C", "3C", "4C", "5C"},
				{"2D", "3D", "4D", "5D"},
				{"2S", "3S", "4S", "5S"},
				{"2H", "3H", "4H", "5H"},
			}, tt.direction)

			passes := [NumSeats][]deck.Card{
				cards(t, "3C", "4C", "5C"),
				cards(t, "3D", "4D", "5D"),
				cards(t, "3S", "4S", "5S"),
				cards(t, "3H", "4H", "5H"),
			}
			for seat, picks := range passes {
				_, err := g.PassCards(seat, picks)
				require.NoError(t, err)
			}

			receiver := g.Seats[tt.receiver]
			for _, c := range cards(t, "3D", "4D", "5D") {
				assert.True(t, receiver.Holds(c), "%s should hold %s", tt.direction, c)
			}
		})
	}
}

func TestStartedGamePassFlow(t *testing.T) {
	g := newLobbyGame(t)
	require.NoError(t, g.Start())
	require.Equal(t, Passing, g.State)

	for seat := 0; seat < NumSeats; seat++ {
		picks := append([]deck.Card(nil), g.Seats[seat].Hand[:3]...)
		_, err := g.PassCards(seat, picks)
		require.NoError(t, err)
	}

	assert.Equal(t, Playing, g.State)
	for i, p := range g.Seats {
		assert.Len(t, p.Hand, 13, "seat %d still holds 13 after the exchange", i)
	}
	require.NotEqual(t, -1, g.TrickLeader)
	assert.True(t, g.Seats[g.TrickLeader].Holds(deck.TwoOfClubs))
}
