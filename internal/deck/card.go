package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Spades
	Hearts
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	default:
		return "?"
	}
}

// Code returns the single-letter wire code for a suit
func (s Suit) Code() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Spades:
		return "S"
	case Hearts:
		return "H"
	default:
		return "?"
	}
}

// Rank represents a card rank. Aces are always high in Hearts.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// TwoOfClubs opens the first trick of every round.
var TwoOfClubs = Card{Suit: Clubs, Rank: Two}

// QueenOfSpades carries 13 penalty points.
var QueenOfSpades = Card{Suit: Spades, Rank: Queen}

// String returns the display representation of a card (e.g. "Q♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Code returns the wire code for a card (e.g. "QS", "2C", "TH")
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.Code()
}

// Points returns the penalty value of the card under Hearts scoring:
// one per heart, thirteen for the queen of spades, zero otherwise.
func (c Card) Points() int {
	switch {
	case c.Suit == Hearts:
		return 1
	case c == QueenOfSpades:
		return 13
	default:
		return 0
	}
}

// IsPenalty returns true if playing this card breaks hearts.
func (c Card) IsPenalty() bool {
	return c.Points() > 0
}

// Less orders cards by suit then rank, the order hands are displayed in.
// The ordering has no rule meaning.
func (c Card) Less(other Card) bool {
	if c.Suit != other.Suit {
		return c.Suit < other.Suit
	}
	return c.Rank < other.Rank
}

// ParseCard parses a wire code like "2C" or "QS" back into a Card.
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}

	var rank Rank
	switch code[0] {
	case 'T':
		rank = Ten
	case 'J':
		rank = Jack
	case 'Q':
		rank = Queen
	case 'K':
		rank = King
	case 'A':
		rank = Ace
	default:
		if code[0] < '2' || code[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank in card code %q", code)
		}
		rank = Rank(code[0] - '0')
	}

	var suit Suit
	switch code[1] {
	case 'C':
		suit = Clubs
	case 'D':
		suit = Diamonds
	case 'S':
		suit = Spades
	case 'H':
		suit = Hearts
	default:
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MarshalJSON encodes the card as its wire code.
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Code() + `"`), nil
}

// UnmarshalJSON decodes a card from its wire code.
func (c *Card) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid card JSON %s", data)
	}
	card, err := ParseCard(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}
