package game

import "github.com/lox/hearts/internal/deck"

// TrickPlay records one card played into the current trick and who played it.
type TrickPlay struct {
	Seat int       `json:"seat"`
	Card deck.Card `json:"card"`
}

// leadSuit returns the suit of the first card of the trick. Only valid
// for non-empty tricks.
func leadSuit(trick []TrickPlay) deck.Suit {
	return trick[0].Card.Suit
}

// trickWinner returns the seat that played the highest-ranked card of
// the led suit. Off-suit cards can never win.
func trickWinner(trick []TrickPlay) int {
	led := leadSuit(trick)
	winner := trick[0].Seat
	best := trick[0].Card.Rank

	for _, play := range trick[1:] {
		if play.Card.Suit == led && play.Card.Rank > best {
			best = play.Card.Rank
			winner = play.Seat
		}
	}
	return winner
}

// trickPoints sums the penalty points in the trick: one per heart plus
// thirteen if the queen of spades was played.
func trickPoints(trick []TrickPlay) int {
	points := 0
	for _, play := range trick {
		points += play.Card.Points()
	}
	return points
}
