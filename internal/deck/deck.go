package deck

import (
	"math/rand"
	"sort"
	"time"
)

// Deck represents a deck of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a new standard 52-card deck with a time-seeded shuffle source.
func NewDeck() *Deck {
	return NewDeckWithSeed(time.Now().UnixNano())
}

// NewDeckWithSeed creates a deck with a deterministic shuffle source for tests.
func NewDeckWithSeed(seed int64) *Deck {
	deck := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rand.New(rand.NewSource(seed)),
	}

	for suit := Clubs; suit <= Hearts; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			deck.cards = append(deck.cards, NewCard(suit, rank))
		}
	}

	return deck
}

// Shuffle randomizes the order of cards using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealHands shuffles and deals the whole deck round-robin into four
// 13-card hands, each sorted suit-then-rank for stable display.
func (d *Deck) DealHands() [4][]Card {
	d.Reset()

	var hands [4][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, 13)
	}
	for i, card := range d.cards {
		hands[i%4] = append(hands[i%4], card)
	}
	d.cards = d.cards[:0]

	for i := range hands {
		Sort(hands[i])
	}
	return hands
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Reset restores the deck to a full 52-card deck and shuffles it
func (d *Deck) Reset() {
	d.cards = d.cards[:0]

	for suit := Clubs; suit <= Hearts; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	d.Shuffle()
}

// Sort orders cards in place by suit then rank.
func Sort(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Less(cards[j])
	})
}
