package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealHandsPartitionsDeck(t *testing.T) {
	d := NewDeckWithSeed(42)
	hands := d.DealHands()

	seen := make(map[Card]int)
	for seat, hand := range hands {
		require.Len(t, hand, 13, "seat %d", seat)
		for _, card := range hand {
			seen[card]++
		}
	}

	// Every one of the 52 cards dealt exactly once
	assert.Len(t, seen, 52)
	for card, count := range seen {
		assert.Equal(t, 1, count, "card %s dealt %d times", card, count)
	}
}

func TestDealHandsSorted(t *testing.T) {
	d := NewDeckWithSeed(7)
	hands := d.DealHands()

	for seat, hand := range hands {
		for i := 1; i < len(hand); i++ {
			assert.True(t, hand[i-1].Less(hand[i]),
				"seat %d hand not sorted at index %d: %s before %s", seat, i, hand[i-1], hand[i])
		}
	}
}

func TestDealHandsDeterministicForSeed(t *testing.T) {
	a := NewDeckWithSeed(99).DealHands()
	b := NewDeckWithSeed(99).DealHands()
	assert.Equal(t, a, b)
}

func TestShuffleChangesOrder(t *testing.T) {
	d := NewDeckWithSeed(1)
	before := make([]Card, len(d.cards))
	copy(before, d.cards)

	d.Shuffle()
	assert.NotEqual(t, before, d.cards)
	assert.Equal(t, 52, d.CardsRemaining())
}

func TestDealExhaustsDeck(t *testing.T) {
	d := NewDeckWithSeed(3)
	for i := 0; i < 52; i++ {
		_, ok := d.Deal()
		require.True(t, ok)
	}
	_, ok := d.Deal()
	assert.False(t, ok)
}
