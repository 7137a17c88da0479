package game

import (
	"errors"
	"fmt"
)

var (
	// ErrSeatTaken indicates the requested seat is already occupied.
	ErrSeatTaken = errors.New("seat is already taken")

	// ErrUserAlreadySeated indicates the user already occupies a seat in this game.
	ErrUserAlreadySeated = errors.New("user is already seated")

	// ErrGameNotInLobby indicates a lobby-only operation on a started game.
	ErrGameNotInLobby = errors.New("game is not in lobby")

	// ErrUnknownSeat indicates the seat index is out of range or unoccupied.
	ErrUnknownSeat = errors.New("unknown seat")

	// ErrNotReady indicates not all four seats are filled, ready and connected.
	ErrNotReady = errors.New("not all seats are ready")

	// ErrWrongPhase indicates the operation is not valid in the game's current state.
	ErrWrongPhase = errors.New("wrong game phase")

	// ErrWrongTurn indicates a play out of turn.
	ErrWrongTurn = errors.New("not this seat's turn")

	// ErrCardNotHeld indicates the seat does not hold the given card.
	ErrCardNotHeld = errors.New("card not held")

	// ErrWrongCardCount indicates a pass with other than exactly three cards.
	ErrWrongCardCount = errors.New("must pass exactly three cards")

	// ErrNoPassThisRound indicates a pass attempt on a no-pass round.
	ErrNoPassThisRound = errors.New("no passing this round")

	// ErrIllegalPlay indicates a play that violates a trick-taking rule.
	// Always wrapped with a reason naming the rule; match with errors.Is.
	ErrIllegalPlay = errors.New("illegal play")
)

// illegalPlay wraps ErrIllegalPlay with a reason identifying which rule
// was violated, for client display and tests.
func illegalPlay(reason string) error {
	return fmt.Errorf("%w: %s", ErrIllegalPlay, reason)
}
