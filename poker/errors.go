package poker

import "errors"

var (
	// ErrInvalidCardCode indicates a code that does not name one of the 52 cards.
	ErrInvalidCardCode = errors.New("invalid card code")

	// ErrInvalidHandSize indicates an evaluation with an unsupported number of cards.
	ErrInvalidHandSize = errors.New("invalid hand size")

	// ErrInsufficientCards indicates a draw larger than the cards remaining.
	ErrInsufficientCards = errors.New("insufficient cards")
)
