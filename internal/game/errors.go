package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance is returned when a bet exceeds the player's balance
	ErrInsufficientBalance = errors.New("bet exceeds balance")

	// ErrInvalidBet is returned for zero or negative bets
	ErrInvalidBet = errors.New("bet must be positive")

	// ErrInvalidState is returned when an operation is called out of round order
	ErrInvalidState = errors.New("operation not allowed in current state")
)

// ErrorKind classifies where in the round a failure happened
type ErrorKind int

const (
	KindSetup ErrorKind = iota + 1
	KindDraw
	KindBetting
	KindPersistence
	KindState
)

func (k ErrorKind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindDraw:
		return "draw"
	case KindBetting:
		return "betting"
	case KindPersistence:
		return "persistence"
	case KindState:
		return "state"
	default:
		return "unknown"
	}
}

// Phases named in PhaseError messages
const (
	PhaseCreateShoe  = "create shoe"
	PhaseReshuffle   = "reshuffle shoe"
	PhasePlaceBet    = "place bet"
	PhaseDealInitial = "deal initial cards"
	PhaseHitPlayer   = "hit player"
	PhaseStand       = "stand"
	PhaseHitDealer   = "hit dealer"
	PhaseEvaluate    = "evaluate outcome"
	PhaseSaveBalance = "save balance"
	PhaseReset       = "reset round"
	PhaseClearHands  = "clear hands"
)

// PhaseError tags a failure with its kind and the round phase it aborted.
// The underlying cause is available through errors.Is / errors.As.
type PhaseError struct {
	Kind  ErrorKind
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

func phaseError(kind ErrorKind, phase string, err error) error {
	return &PhaseError{Kind: kind, Phase: phase, Err: err}
}

func stateError(phase string, state State) error {
	return phaseError(KindState, phase, fmt.Errorf("%w: %s", ErrInvalidState, state))
}

// KindOf returns the kind of the first PhaseError in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
