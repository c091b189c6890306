package poker

import (
	"fmt"
	"math/bits"
	"strings"
	"unicode"
)

// Rank indices in ascending strength order. Two is 0 so a rank doubles as a
// bit offset within a 13-bit suit mask.
const (
	Two uint8 = iota
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

// Suit indices.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// Card is a single card encoded as one set bit in a 64-bit word. The bit
// index is suit*13+rank, so hands are unions of cards and per-suit rank
// masks fall out of a shift and mask.
type Card uint64

// NewCard creates a card from a rank (Two..Ace) and suit (Clubs..Spades).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (suit*13 + rank)
}

// ParseCard parses a two-character card code like "As" or "2c". Rank and
// suit characters are accepted in either case.
func ParseCard(code string) (Card, error) {
	if len(code) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCardCode, code)
	}
	rank := strings.IndexByte(rankChars, upperByte(code[0]))
	if rank < 0 {
		return 0, fmt.Errorf("%w: %q has no rank %q", ErrInvalidCardCode, code, code[0])
	}
	suit := strings.IndexByte(suitChars, lowerByte(code[1]))
	if suit < 0 {
		return 0, fmt.Errorf("%w: %q has no suit %q", ErrInvalidCardCode, code, code[1])
	}
	return NewCard(uint8(rank), uint8(suit)), nil
}

// ParseCards parses a run of card codes. Codes may be separated by spaces
// or commas, or simply concatenated ("AsKdQh").
func ParseCards(s string) ([]Card, error) {
	var cards []Card
	for _, field := range strings.FieldsFunc(s, isCardSeparator) {
		if len(field)%2 != 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCardCode, field)
		}
		for i := 0; i < len(field); i += 2 {
			card, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func isCardSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// Rank returns the card's rank index (Two..Ace).
func (c Card) Rank() uint8 {
	return uint8(bits.TrailingZeros64(uint64(c)) % 13)
}

// Suit returns the card's suit index (Clubs..Spades).
func (c Card) Suit() uint8 {
	return uint8(bits.TrailingZeros64(uint64(c)) / 13)
}

// String returns the two-character card code, e.g. "As".
func (c Card) String() string {
	if bits.OnesCount64(uint64(c)) != 1 {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// Hand is a set of cards stored as a bitset. The zero value is an empty
// hand, and adding a card already present is a no-op, so a hand can never
// hold duplicates.
type Hand uint64

// NewHand creates a hand containing the given cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// ParseHand parses a run of card codes into a hand.
func ParseHand(s string) (Hand, error) {
	cards, err := ParseCards(s)
	if err != nil {
		return 0, err
	}
	return NewHand(cards...), nil
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// RemoveCard removes a card from the hand.
func (h *Hand) RemoveCard(c Card) {
	*h &^= Hand(c)
}

// HasCard reports whether the hand contains the card.
func (h Hand) HasCard(c Card) bool {
	return h&Hand(c) != 0
}

// Overlaps reports whether any card is shared with another hand.
func (h Hand) Overlaps(other Hand) bool {
	return h&other != 0
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns the 13-bit rank mask for one suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16(h>>(suit*13)) & 0x1FFF
}

// RanksMask returns the 13-bit mask of distinct ranks across all suits.
func (h Hand) RanksMask() uint16 {
	return h.GetSuitMask(Clubs) | h.GetSuitMask(Diamonds) | h.GetSuitMask(Hearts) | h.GetSuitMask(Spades)
}

// Cards returns the hand's cards in ascending bit order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for m := uint64(h); m != 0; m &= m - 1 {
		cards = append(cards, Card(m&-m))
	}
	return cards
}

// String returns the hand's card codes concatenated, e.g. "2cAs".
func (h Hand) String() string {
	var sb strings.Builder
	for _, c := range h.Cards() {
		sb.WriteString(c.String())
	}
	return sb.String()
}
