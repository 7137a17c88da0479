package game

import "github.com/lox/hearts/internal/deck"

// Strategy decides bot actions. Implementations must return legal
// choices: three held cards to pass, and one card from the legal set to
// play. Nothing stronger is required of them.
type Strategy interface {
	ChooseCardsToPass(hand []deck.Card) []deck.Card
	ChooseCardToPlay(hand []deck.Card, legal []deck.Card) deck.Card
}

// FirstLegal is a deterministic placeholder strategy that always takes
// the first legal option over the sorted hand. It plays terribly and
// that is fine.
type FirstLegal struct{}

// ChooseCardsToPass returns the first three cards of the hand.
func (FirstLegal) ChooseCardsToPass(hand []deck.Card) []deck.Card {
	return append([]deck.Card(nil), hand[:3]...)
}

// ChooseCardToPlay returns the first legal card.
func (FirstLegal) ChooseCardToPlay(hand []deck.Card, legal []deck.Card) deck.Card {
	return legal[0]
}

// AvoidPoints is a slightly less terrible strategy: it passes its
// highest cards away and dumps the most dangerous legal card when it
// cannot win cheaply.
type AvoidPoints struct{}

// ChooseCardsToPass returns the three highest cards of the hand,
// preferring the queen of spades and high hearts.
func (AvoidPoints) ChooseCardsToPass(hand []deck.Card) []deck.Card {
	picked := make([]deck.Card, 0, 3)
	taken := make(map[deck.Card]bool)

	for len(picked) < 3 {
		best := hand[0]
		for _, c := range hand {
			if taken[c] {
				continue
			}
			if taken[best] || passDanger(c) > passDanger(best) {
				best = c
			}
		}
		taken[best] = true
		picked = append(picked, best)
	}
	return picked
}

// ChooseCardToPlay plays the highest legal penalty card when following
// is forced, otherwise the lowest legal card.
func (AvoidPoints) ChooseCardToPlay(hand []deck.Card, legal []deck.Card) deck.Card {
	best := legal[0]
	for _, c := range legal[1:] {
		if playDanger(c) > playDanger(best) {
			best = c
		}
	}
	if best.IsPenalty() {
		return best
	}

	// Nothing to dump, duck with the lowest card
	low := legal[0]
	for _, c := range legal[1:] {
		if int(c.Rank) < int(low.Rank) {
			low = c
		}
	}
	return low
}

// passDanger ranks cards by how badly we want rid of them in a pass.
func passDanger(c deck.Card) int {
	score := int(c.Rank)
	if c == deck.QueenOfSpades {
		score += 100
	}
	if c.Suit == deck.Hearts {
		score += 20
	}
	return score
}

// playDanger ranks legal plays by how much trouble holding them invites.
func playDanger(c deck.Card) int {
	if c == deck.QueenOfSpades {
		return 100
	}
	if c.Suit == deck.Hearts {
		return 20 + int(c.Rank)
	}
	return 0
}

// StrategyByName resolves a configured bot strategy name. Unknown
// names fall back to FirstLegal.
func StrategyByName(name string) Strategy {
	if name == "avoid-points" {
		return AvoidPoints{}
	}
	return FirstLegal{}
}
