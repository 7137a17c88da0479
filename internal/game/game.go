package game

import (
	"github.com/lox/hearts/internal/deck"
)

// NumSeats is fixed: Hearts is always played four-handed.
const NumSeats = 4

// TricksPerRound is the number of tricks in a 13-card round.
const TricksPerRound = 13

// LosingScore ends the game once any player reaches it.
const LosingScore = 100

// State represents the lifecycle state of a game
type State int

const (
	Lobby State = iota
	Passing
	Playing
	Finished
	Abandoned
)

// String returns the string representation of a game state
func (s State) String() string {
	switch s {
	case Lobby:
		return "lobby"
	case Passing:
		return "passing"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// PassDirection is the seat-to-seat mapping used to exchange three
// cards before play begins. It cycles with the round number.
type PassDirection int

const (
	PassLeft PassDirection = iota
	PassRight
	PassAcross
	PassNone
)

// String returns the string representation of a pass direction
func (d PassDirection) String() string {
	switch d {
	case PassLeft:
		return "left"
	case PassRight:
		return "right"
	case PassAcross:
		return "across"
	case PassNone:
		return "none"
	default:
		return "unknown"
	}
}

// offset returns how many seats clockwise the passed cards travel.
func (d PassDirection) offset() int {
	switch d {
	case PassLeft:
		return 1
	case PassRight:
		return 3
	case PassAcross:
		return 2
	default:
		return 0
	}
}

// DirectionForRound returns the pass direction for a 1-based round
// number: left, right, across, none, repeating.
func DirectionForRound(round int) PassDirection {
	return PassDirection((round - 1) % 4)
}

// Game is the authoritative state of one Hearts game. All mutations
// must be serialized by the caller; see internal/server.
type Game struct {
	ID            string
	State         State
	Seats         [NumSeats]*Player
	Round         int // 1-based once started
	TrickNumber   int // 0..13 within the round
	PassDirection PassDirection
	HeartsBroken  bool
	TrickLeader   int
	CurrentTrick  []TrickPlay
	LobbyLeader   int // -1 while no seat is occupied
	Winner        int // seat of the game winner once Finished, else -1

	deck *deck.Deck
}

// New creates an empty game in the lobby state.
func New(id string) *Game {
	return NewWithDeck(id, deck.NewDeck())
}

// NewWithDeck creates a game using the given deck, so tests can pin the
// shuffle seed.
func NewWithDeck(id string, d *deck.Deck) *Game {
	return &Game{
		ID:          id,
		State:       Lobby,
		LobbyLeader: -1,
		TrickLeader: -1,
		Winner:      -1,
		deck:        d,
	}
}

// AddPlayer seats a human user. The first occupied seat becomes the
// lobby leader.
func (g *Game) AddPlayer(seat int, userID, name string) error {
	if g.State != Lobby {
		return ErrGameNotInLobby
	}
	if seat < 0 || seat >= NumSeats {
		return ErrUnknownSeat
	}
	if g.Seats[seat] != nil {
		return ErrSeatTaken
	}
	if _, ok := g.SeatOf(userID); ok {
		return ErrUserAlreadySeated
	}

	g.Seats[seat] = &Player{
		UserID:      userID,
		Name:        name,
		IsConnected: true,
	}
	if g.LobbyLeader == -1 {
		g.LobbyLeader = seat
	}
	return nil
}

// AddBot seats a bot. Bots are always connected and always ready.
func (g *Game) AddBot(seat int, name string) error {
	if g.State != Lobby {
		return ErrGameNotInLobby
	}
	if seat < 0 || seat >= NumSeats {
		return ErrUnknownSeat
	}
	if g.Seats[seat] != nil {
		return ErrSeatTaken
	}

	g.Seats[seat] = &Player{
		Name:        name,
		IsBot:       true,
		IsConnected: true,
		IsReady:     true,
	}
	return nil
}

// RemovePlayer frees the seat in the lobby, reassigning leadership to
// the lowest-numbered remaining seat. Once a game has started the
// player is only marked disconnected; in-progress games are not
// abandoned on disconnect.
func (g *Game) RemovePlayer(seat int) error {
	if seat < 0 || seat >= NumSeats || g.Seats[seat] == nil {
		return ErrUnknownSeat
	}

	if g.State != Lobby {
		g.Seats[seat].IsConnected = false
		return nil
	}

	g.Seats[seat] = nil
	if g.LobbyLeader == seat {
		g.LobbyLeader = -1
		for i, p := range g.Seats {
			if p != nil {
				g.LobbyLeader = i
				break
			}
		}
	}
	return nil
}

// SetConnected updates the connection flag for a seated player.
func (g *Game) SetConnected(seat int, connected bool) error {
	if seat < 0 || seat >= NumSeats || g.Seats[seat] == nil {
		return ErrUnknownSeat
	}
	g.Seats[seat].IsConnected = connected
	return nil
}

// ToggleReady flips the seat's ready flag.
func (g *Game) ToggleReady(seat int) error {
	if seat < 0 || seat >= NumSeats || g.Seats[seat] == nil {
		return ErrUnknownSeat
	}
	g.Seats[seat].IsReady = !g.Seats[seat].IsReady
	return nil
}

// CanStart returns true iff the game is in the lobby with all four
// seats filled, ready and connected.
func (g *Game) CanStart() bool {
	if g.State != Lobby {
		return false
	}
	for _, p := range g.Seats {
		if p == nil || !p.IsReady || !p.IsConnected {
			return false
		}
	}
	return true
}

// Start deals the first round and enters the passing phase (or playing
// directly on a no-pass round).
func (g *Game) Start() error {
	if !g.CanStart() {
		return ErrNotReady
	}

	g.Round = 1
	g.beginRound()
	return nil
}

// beginRound deals 13 cards to each seat and sets up the pass or play
// phase for the current round number.
func (g *Game) beginRound() {
	hands := g.deck.DealHands()
	for i, p := range g.Seats {
		p.resetForRound()
		p.Hand = hands[i]
	}

	g.TrickNumber = 0
	g.CurrentTrick = nil
	g.HeartsBroken = false
	g.PassDirection = DirectionForRound(g.Round)

	if g.PassDirection == PassNone {
		g.State = Playing
		g.TrickLeader = g.holderOfTwoOfClubs()
	} else {
		g.State = Passing
		g.TrickLeader = -1
	}
}

// holderOfTwoOfClubs returns the seat holding 2♣. The deal is a full
// partition of the deck, so it always exists.
func (g *Game) holderOfTwoOfClubs() int {
	for i, p := range g.Seats {
		if p.Holds(deck.TwoOfClubs) {
			return i
		}
	}
	return -1
}

// PassCards stages exactly three cards for the seat. The cards stay in
// the hand until all four seats have committed; the exchange then
// happens atomically and the game enters the playing phase. Returns
// true once the exchange has happened.
func (g *Game) PassCards(seat int, cards []deck.Card) (bool, error) {
	if g.State != Passing {
		return false, ErrWrongPhase
	}
	if g.PassDirection == PassNone {
		return false, ErrNoPassThisRound
	}
	if seat < 0 || seat >= NumSeats || g.Seats[seat] == nil {
		return false, ErrUnknownSeat
	}
	if len(cards) != 3 {
		return false, ErrWrongCardCount
	}

	p := g.Seats[seat]
	seen := make(map[deck.Card]bool, 3)
	for _, card := range cards {
		if !p.Holds(card) || seen[card] {
			return false, ErrCardNotHeld
		}
		seen[card] = true
	}

	p.PendingPass = append([]deck.Card(nil), cards...)
	p.HasPassed = true

	for _, other := range g.Seats {
		if !other.HasPassed {
			return false, nil
		}
	}

	g.exchangePassedCards()
	return true, nil
}

// exchangePassedCards removes every seat's committed cards and
// redistributes them per the round's direction, then starts play.
func (g *Game) exchangePassedCards() {
	offset := g.PassDirection.offset()

	for _, p := range g.Seats {
		for _, card := range p.PendingPass {
			p.removeCard(card)
		}
	}
	for seat, p := range g.Seats {
		receiver := g.Seats[(seat+offset)%NumSeats]
		receiver.Hand = append(receiver.Hand, p.PendingPass...)
	}
	for _, p := range g.Seats {
		deck.Sort(p.Hand)
		p.PendingPass = nil
		p.HasPassed = false
	}

	g.State = Playing
	g.TrickLeader = g.holderOfTwoOfClubs()
}

// NextActor returns the seat expected to play next: the trick leader
// when the trick is empty, otherwise the seat after the last player.
// Returns -1 outside the playing phase.
func (g *Game) NextActor() int {
	if g.State != Playing {
		return -1
	}
	if len(g.CurrentTrick) == 0 {
		return g.TrickLeader
	}
	return (g.CurrentTrick[len(g.CurrentTrick)-1].Seat + 1) % NumSeats
}

// SeatOf returns the seat occupied by the user, if any.
func (g *Game) SeatOf(userID string) (int, bool) {
	if userID == "" {
		return -1, false
	}
	for i, p := range g.Seats {
		if p != nil && p.UserID == userID {
			return i, true
		}
	}
	return -1, false
}

// Abandon marks the game abandoned. The decision belongs to external
// cleanup, not to the rules themselves.
func (g *Game) Abandon() {
	g.State = Abandoned
}
