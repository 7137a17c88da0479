package game

import "github.com/lox/hearts/internal/deck"

// PlayResult reports what happened after a successful card play.
type PlayResult struct {
	// TrickComplete is true when this play was the fourth card and the
	// trick has been resolved.
	TrickComplete bool

	// NextSeat is the seat to act next, or -1 when the round or game
	// ended with this play.
	NextSeat int

	// Winner, Points and TrickCards describe the resolved trick when
	// TrickComplete is true.
	Winner     int
	Points     int
	TrickCards []TrickPlay

	// RoundComplete is true when this trick was the thirteenth of the
	// round. RoundScores holds each seat's score for the completed
	// round after any shoot-the-moon inversion.
	RoundComplete bool
	RoundScores   [NumSeats]int

	// GameComplete is true when a player crossed the losing score and
	// the game is finished. GameWinner is the winning seat.
	GameComplete bool
	GameWinner   int
}

// checkPlayLegality applies the trick-taking rules in order and returns
// an ErrIllegalPlay naming the violated rule, or nil.
func (g *Game) checkPlayLegality(seat int, card deck.Card) error {
	p := g.Seats[seat]
	leading := len(g.CurrentTrick) == 0
	firstTrick := g.TrickNumber == 0

	if firstTrick && leading && card != deck.TwoOfClubs {
		return illegalPlay("the first trick must be led with the two of clubs")
	}
	if firstTrick && card.IsPenalty() && !p.OnlyPenaltyCards() {
		return illegalPlay("no hearts or queen of spades on the first trick")
	}
	if !firstTrick && leading && card.Suit == deck.Hearts && !g.HeartsBroken && !p.OnlyHearts() {
		return illegalPlay("hearts have not been broken")
	}
	if !leading {
		led := leadSuit(g.CurrentTrick)
		if card.Suit != led && p.HasSuit(led) {
			return illegalPlay("must follow the led suit")
		}
	}
	return nil
}

// LegalPlays returns the cards the seat may legally play right now, in
// hand display order. Empty outside the playing phase or off turn.
func (g *Game) LegalPlays(seat int) []deck.Card {
	if g.State != Playing || g.NextActor() != seat {
		return nil
	}

	var legal []deck.Card
	for _, card := range g.Seats[seat].Hand {
		if g.checkPlayLegality(seat, card) == nil {
			legal = append(legal, card)
		}
	}
	return legal
}

// PlayCard plays a card for the seat, resolving the trick (and round,
// and game) when it is the fourth card. State is unchanged on error.
func (g *Game) PlayCard(seat int, card deck.Card) (PlayResult, error) {
	if g.State != Playing {
		return PlayResult{}, ErrWrongPhase
	}
	if seat < 0 || seat >= NumSeats || g.Seats[seat] == nil {
		return PlayResult{}, ErrUnknownSeat
	}
	if g.NextActor() != seat {
		return PlayResult{}, ErrWrongTurn
	}
	p := g.Seats[seat]
	if !p.Holds(card) {
		return PlayResult{}, ErrCardNotHeld
	}
	if err := g.checkPlayLegality(seat, card); err != nil {
		return PlayResult{}, err
	}

	p.removeCard(card)
	g.CurrentTrick = append(g.CurrentTrick, TrickPlay{Seat: seat, Card: card})
	if card.IsPenalty() {
		g.HeartsBroken = true
	}

	if len(g.CurrentTrick) < NumSeats {
		return PlayResult{NextSeat: g.NextActor()}, nil
	}
	return g.resolveTrick(), nil
}

// resolveTrick settles a four-card trick: winner takes the points,
// leads the next trick, and the thirteenth trick resolves the round.
func (g *Game) resolveTrick() PlayResult {
	trick := g.CurrentTrick
	winner := trickWinner(trick)
	points := trickPoints(trick)

	w := g.Seats[winner]
	w.RoundScore += points
	w.TricksWon++

	g.TrickLeader = winner
	g.TrickNumber++
	g.CurrentTrick = nil

	result := PlayResult{
		TrickComplete: true,
		Winner:        winner,
		Points:        points,
		TrickCards:    trick,
		NextSeat:      winner,
	}

	if g.TrickNumber == TricksPerRound {
		g.resolveRound(&result)
	}
	return result
}

// resolveRound applies shoot-the-moon inversion, folds round scores
// into totals, and either finishes the game or deals the next round.
func (g *Game) resolveRound(result *PlayResult) {
	result.RoundComplete = true
	result.NextSeat = -1

	if shooter := g.moonShooter(); shooter != -1 {
		for i, p := range g.Seats {
			if i == shooter {
				p.RoundScore = 0
			} else {
				p.RoundScore = 26
			}
		}
	}

	gameOver := false
	for i, p := range g.Seats {
		p.TotalScore += p.RoundScore
		result.RoundScores[i] = p.RoundScore
		if p.TotalScore >= LosingScore {
			gameOver = true
		}
	}

	if gameOver {
		g.State = Finished
		g.Winner = g.lowestTotalSeat()
		result.GameComplete = true
		result.GameWinner = g.Winner
		return
	}

	g.Round++
	g.beginRound()
}

// moonShooter returns the seat that took all 26 points this round, or -1.
func (g *Game) moonShooter() int {
	for i, p := range g.Seats {
		if p.RoundScore == 26 {
			return i
		}
	}
	return -1
}

// lowestTotalSeat returns the seat with the lowest total score, ties
// broken by the lowest seat number.
func (g *Game) lowestTotalSeat() int {
	winner := 0
	for i := 1; i < NumSeats; i++ {
		if g.Seats[i].TotalScore < g.Seats[winner].TotalScore {
			winner = i
		}
	}
	return winner
}
