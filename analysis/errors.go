package analysis

import "errors"

var (
	// ErrInvalidRange indicates a range descriptor that cannot be parsed.
	ErrInvalidRange = errors.New("invalid range")

	// ErrConflictingCards indicates the same card claimed twice across
	// hole cards, the board or a range.
	ErrConflictingCards = errors.New("conflicting cards")

	// ErrInsufficientTrials indicates a simulation asked for fewer than
	// one trial.
	ErrInsufficientTrials = errors.New("insufficient trials")
)
