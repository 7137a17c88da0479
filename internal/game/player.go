package game

import "github.com/lox/hearts/internal/deck"

// Player holds the per-seat state for one game. A seat is empty when
// the Game's seat pointer is nil, never when a Player exists.
type Player struct {
	UserID      string // empty for bots
	Name        string
	IsBot       bool
	IsConnected bool
	IsReady     bool

	Hand        []deck.Card
	PendingPass []deck.Card // exactly 3 once committed, nil otherwise
	HasPassed   bool

	RoundScore int
	TotalScore int
	TricksWon  int
}

// Holds returns true if the card is in the player's hand.
func (p *Player) Holds(card deck.Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit returns true if the player holds any card of the suit.
func (p *Player) HasSuit(suit deck.Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// OnlyPenaltyCards returns true if every card in hand is a heart or the
// queen of spades. Relaxes the first-trick point restriction.
func (p *Player) OnlyPenaltyCards() bool {
	for _, c := range p.Hand {
		if !c.IsPenalty() {
			return false
		}
	}
	return len(p.Hand) > 0
}

// OnlyHearts returns true if every card in hand is a heart. Relaxes the
// hearts-broken lead restriction.
func (p *Player) OnlyHearts() bool {
	for _, c := range p.Hand {
		if c.Suit != deck.Hearts {
			return false
		}
	}
	return len(p.Hand) > 0
}

// removeCard removes one copy of the card from the hand. Callers check
// Holds first.
func (p *Player) removeCard(card deck.Card) {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// resetForRound clears all round-scoped state before a new deal.
func (p *Player) resetForRound() {
	p.Hand = nil
	p.PendingPass = nil
	p.HasPassed = false
	p.RoundScore = 0
	p.TricksWon = 0
}
