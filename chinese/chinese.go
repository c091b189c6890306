// Package chinese scores Chinese poker layouts: thirteen cards arranged
// into a three-card top row and five-card middle and bottom rows. Rows
// are ranked with the standard hand categories, rows out of order foul
// the layout, and strong rows earn royalty bonuses.
package chinese

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/lox/pokerequity/poker"
)

var (
	// ErrFoul indicates a layout whose rows are out of order: the top
	// row must not outrank the middle, nor the middle the bottom.
	ErrFoul = errors.New("fouled layout")

	// ErrDuplicateCard indicates a card appearing in two rows.
	ErrDuplicateCard = errors.New("duplicate card in layout")
)

// RowPosition identifies one of the three rows of a layout.
type RowPosition uint8

const (
	Top RowPosition = iota
	Middle
	Bottom
)

func (r RowPosition) String() string {
	switch r {
	case Top:
		return "top"
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	}
	return "unknown"
}

// EvaluateRow scores one row. The top row holds exactly three cards and
// only reaches high card, pair, or three of a kind; middle and bottom
// rows hold exactly five and use the full category ladder. Scores from
// different rows compare directly.
func EvaluateRow(row RowPosition, cards []poker.Card) (poker.Score, error) {
	if row == Top {
		return evaluateTop(cards)
	}
	if len(cards) != 5 {
		return 0, fmt.Errorf("%w: %s row needs 5 cards, got %d", poker.ErrInvalidHandSize, row, len(cards))
	}
	return poker.Evaluate(cards)
}

// evaluateTop classifies a three-card row. Straights and flushes do not
// count in the top row.
func evaluateTop(cards []poker.Card) (poker.Score, error) {
	h := poker.NewHand(cards...)
	if len(cards) != 3 || h.CountCards() != 3 {
		return 0, fmt.Errorf("%w: top row needs 3 distinct cards, got %d", poker.ErrInvalidHandSize, len(cards))
	}

	s0 := h.GetSuitMask(poker.Clubs)
	s1 := h.GetSuitMask(poker.Diamonds)
	s2 := h.GetSuitMask(poker.Hearts)
	s3 := h.GetSuitMask(poker.Spades)

	trips := s0&s1&s2 | s0&s1&s3 | s0&s2&s3 | s1&s2&s3
	if trips != 0 {
		return poker.NewScore(poker.ThreeOfAKind, topRank(trips)), nil
	}

	pairs := s0&s1 | s0&s2 | s0&s3 | s1&s2 | s1&s3 | s2&s3
	if pairs != 0 {
		kicker := topRank(h.RanksMask() &^ pairs)
		return poker.NewScore(poker.Pair, topRank(pairs), kicker), nil
	}

	ranks := h.RanksMask()
	var tb [3]uint8
	for i := range tb {
		tb[i] = topRank(ranks)
		ranks &^= 1 << tb[i]
	}
	return poker.NewScore(poker.HighCard, tb[0], tb[1], tb[2]), nil
}

func topRank(mask uint16) uint8 {
	return uint8(bits.Len16(mask) - 1)
}

// Royalties returns the bonus points a score earns in the given row.
// The schedules follow the usual open-face tables: the top row pays for
// pairs of sixes or better and for trips, the middle row pays double
// the bottom schedule, and royal flushes pay a premium.
func Royalties(row RowPosition, score poker.Score) int {
	switch row {
	case Top:
		return topRoyalties(score)
	case Middle:
		return middleRoyalties(score)
	case Bottom:
		return bottomRoyalties(score)
	}
	return 0
}

func topRoyalties(score poker.Score) int {
	tb := score.Tiebreaks()
	switch score.Category() {
	case poker.Pair:
		if tb[0] < poker.Six {
			return 0
		}
		// Sixes pay 1 up to aces paying 9.
		return int(tb[0]-poker.Six) + 1
	case poker.ThreeOfAKind:
		// Deuces pay 10 up to aces paying 22.
		return int(tb[0]) + 10
	}
	return 0
}

func middleRoyalties(score poker.Score) int {
	switch score.Category() {
	case poker.ThreeOfAKind:
		return 2
	case poker.Straight:
		return 4
	case poker.Flush:
		return 8
	case poker.FullHouse:
		return 12
	case poker.FourOfAKind:
		return 20
	case poker.StraightFlush:
		if score.Tiebreaks()[0] == poker.Ace {
			return 50
		}
		return 30
	}
	return 0
}

func bottomRoyalties(score poker.Score) int {
	switch score.Category() {
	case poker.Straight:
		return 2
	case poker.Flush:
		return 4
	case poker.FullHouse:
		return 6
	case poker.FourOfAKind:
		return 10
	case poker.StraightFlush:
		if score.Tiebreaks()[0] == poker.Ace {
			return 25
		}
		return 15
	}
	return 0
}

// Layout is a player's thirteen cards arranged into rows.
type Layout struct {
	Top    []poker.Card
	Middle []poker.Card
	Bottom []poker.Card
}

// Scores evaluates the three rows.
func (l *Layout) Scores() (top, middle, bottom poker.Score, err error) {
	if top, err = EvaluateRow(Top, l.Top); err != nil {
		return 0, 0, 0, err
	}
	if middle, err = EvaluateRow(Middle, l.Middle); err != nil {
		return 0, 0, 0, err
	}
	if bottom, err = EvaluateRow(Bottom, l.Bottom); err != nil {
		return 0, 0, 0, err
	}
	return top, middle, bottom, nil
}

// Validate checks row sizes, card uniqueness across rows, and the row
// ordering. Equal neighbouring rows do not foul.
func (l *Layout) Validate() error {
	var seen poker.Hand
	for _, row := range [][]poker.Card{l.Top, l.Middle, l.Bottom} {
		for _, card := range row {
			if seen.HasCard(card) {
				return fmt.Errorf("%w: %s", ErrDuplicateCard, card)
			}
			seen.AddCard(card)
		}
	}

	top, middle, bottom, err := l.Scores()
	if err != nil {
		return err
	}
	if poker.CompareScores(top, middle) > 0 {
		return fmt.Errorf("%w: top row %s beats middle row %s", ErrFoul, top, middle)
	}
	if poker.CompareScores(middle, bottom) > 0 {
		return fmt.Errorf("%w: middle row %s beats bottom row %s", ErrFoul, middle, bottom)
	}
	return nil
}

// Royalties sums the three rows' bonuses. A layout that fails
// validation scores zero.
func (l *Layout) Royalties() int {
	if l.Validate() != nil {
		return 0
	}
	top, middle, bottom, err := l.Scores()
	if err != nil {
		return 0
	}
	return Royalties(Top, top) + Royalties(Middle, middle) + Royalties(Bottom, bottom)
}

// DealLayout deals a thirteen-card layout from the deck in row order.
// Rows are filled as drawn; arranging them is the caller's concern.
func DealLayout(d *poker.Deck) (*Layout, error) {
	top, err := d.Draw(3)
	if err != nil {
		return nil, err
	}
	middle, err := d.Draw(5)
	if err != nil {
		return nil, err
	}
	bottom, err := d.Draw(5)
	if err != nil {
		return nil, err
	}
	return &Layout{Top: top, Middle: middle, Bottom: bottom}, nil
}
