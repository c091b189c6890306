package poker

import "strings"

// Category enumerates the hand categories ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush

	NumCategories = int(StraightFlush) + 1
)

var categoryNames = [...]string{
	"high_card",
	"pair",
	"two_pair",
	"three_of_a_kind",
	"straight",
	"flush",
	"full_house",
	"four_of_a_kind",
	"straight_flush",
}

// String returns the canonical category name, e.g. "full_house".
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// tiebreakArity is the number of meaningful tiebreak slots per category.
var tiebreakArity = [...]int{5, 4, 3, 3, 1, 5, 2, 2, 1}

// Score encodes a hand's category and tiebreak ranks in one integer so the
// native < ordering ranks hands correctly. From the high bits down: the
// category, then up to five rank nibbles in tiebreak order (the rank of a
// multiple before the rank of a shorter multiple before kickers, each
// descending). Slots a category does not use stay zero, which never
// disturbs the ordering because equal categories fill the same slots.
type Score uint32

const scoreCategoryShift = 20

// NewScore packs a category and its tiebreak ranks, strongest first.
func NewScore(cat Category, tiebreaks ...uint8) Score {
	s := Score(cat) << scoreCategoryShift
	shift := scoreCategoryShift
	for _, r := range tiebreaks {
		shift -= 4
		s |= Score(r) << shift
	}
	return s
}

// Category returns the hand category.
func (s Score) Category() Category {
	return Category(s >> scoreCategoryShift)
}

// Tiebreaks returns the five tiebreak slots, strongest first. Slots beyond
// the category's arity are zero.
func (s Score) Tiebreaks() [5]uint8 {
	var tb [5]uint8
	for i := range tb {
		tb[i] = uint8(s >> (16 - 4*i) & 0xF)
	}
	return tb
}

// String renders the category with its tiebreak ranks, e.g. "full_house 54".
func (s Score) String() string {
	var sb strings.Builder
	sb.WriteString(s.Category().String())
	cat := int(s.Category())
	if cat >= len(tiebreakArity) {
		return sb.String()
	}
	tb := s.Tiebreaks()
	sb.WriteByte(' ')
	for i := 0; i < tiebreakArity[cat]; i++ {
		sb.WriteByte(rankChars[tb[i]])
	}
	return sb.String()
}

// CompareScores returns -1, 0 or 1 as a ranks below, equal to or above b.
func CompareScores(a, b Score) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
