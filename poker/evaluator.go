package poker

import (
	"fmt"
	"math/bits"
)

// wheelMask is A-2-3-4-5, the only straight where the ace plays low.
const wheelMask uint16 = 0x100F

// Evaluate scores the best 5-card hand available from 5 to 7 distinct
// cards. With 6 or 7 cards every 5-card combination is scored and the best
// kept.
func Evaluate(cards []Card) (Score, error) {
	switch len(cards) {
	case 5, 6, 7:
	default:
		return 0, fmt.Errorf("%w: got %d cards, want 5 to 7", ErrInvalidHandSize, len(cards))
	}
	if NewHand(cards...).CountCards() != len(cards) {
		return 0, fmt.Errorf("%w: duplicate card in %v", ErrInvalidHandSize, cards)
	}
	switch len(cards) {
	case 5:
		var five [5]Card
		copy(five[:], cards)
		return Evaluate5(&five), nil
	case 6:
		var six [6]Card
		copy(six[:], cards)
		return Evaluate6(&six), nil
	default:
		var seven [7]Card
		copy(seven[:], cards)
		return Evaluate7(&seven), nil
	}
}

// MustEvaluate is Evaluate for inputs known to be valid; it panics on error.
func MustEvaluate(cards []Card) Score {
	s, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return s
}

// Evaluate5 scores exactly five distinct cards.
func Evaluate5(cards *[5]Card) Score {
	return evaluate5(Hand(cards[0]) | Hand(cards[1]) | Hand(cards[2]) | Hand(cards[3]) | Hand(cards[4]))
}

// Evaluate6 scores the best five of six distinct cards.
func Evaluate6(cards *[6]Card) Score {
	var best Score
	for i := range combos6of5 {
		idx := &combos6of5[i]
		h := Hand(cards[idx[0]]) | Hand(cards[idx[1]]) | Hand(cards[idx[2]]) | Hand(cards[idx[3]]) | Hand(cards[idx[4]])
		if s := evaluate5(h); s > best {
			best = s
		}
	}
	return best
}

// Evaluate7 scores the best five of seven distinct cards. This is the
// simulation hot path; callers guarantee distinctness.
func Evaluate7(cards *[7]Card) Score {
	var best Score
	for i := range combos21of5 {
		idx := &combos21of5[i]
		h := Hand(cards[idx[0]]) | Hand(cards[idx[1]]) | Hand(cards[idx[2]]) | Hand(cards[idx[3]]) | Hand(cards[idx[4]])
		if s := evaluate5(h); s > best {
			best = s
		}
	}
	return best
}

// evaluate5 classifies the five distinct cards held in h. Multiplicities
// come from intersections of the per-suit rank masks: a rank present in
// all four suits is quads, in any three suits trips, in any two a pair.
func evaluate5(h Hand) Score {
	s0 := h.GetSuitMask(Clubs)
	s1 := h.GetSuitMask(Diamonds)
	s2 := h.GetSuitMask(Hearts)
	s3 := h.GetSuitMask(Spades)
	ranks := s0 | s1 | s2 | s3

	if bits.OnesCount16(ranks) == 5 {
		// Five distinct ranks: straight, flush or high card.
		flush := s0 == ranks || s1 == ranks || s2 == ranks || s3 == ranks
		if high, ok := straightHigh(ranks); ok {
			if flush {
				return NewScore(StraightFlush, high)
			}
			return NewScore(Straight, high)
		}
		r := ranksDesc(ranks)
		if flush {
			return NewScore(Flush, r[0], r[1], r[2], r[3], r[4])
		}
		return NewScore(HighCard, r[0], r[1], r[2], r[3], r[4])
	}

	quads := s0 & s1 & s2 & s3
	tripsOrBetter := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	pairsOrBetter := (s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)
	trips := tripsOrBetter &^ quads
	pairs := pairsOrBetter &^ tripsOrBetter
	singles := ranks &^ pairsOrBetter

	switch {
	case quads != 0:
		return NewScore(FourOfAKind, topRank(quads), topRank(singles))
	case trips != 0 && pairs != 0:
		return NewScore(FullHouse, topRank(trips), topRank(pairs))
	case trips != 0:
		k := ranksDesc(singles)
		return NewScore(ThreeOfAKind, topRank(trips), k[0], k[1])
	case bits.OnesCount16(pairs) == 2:
		lo := uint8(bits.TrailingZeros16(pairs))
		return NewScore(TwoPair, topRank(pairs), lo, topRank(singles))
	default:
		k := ranksDesc(singles)
		return NewScore(Pair, topRank(pairs), k[0], k[1], k[2])
	}
}

// straightHigh returns the high rank of a five-long run in mask. The
// cascade finds ordinary runs; the wheel is checked after, so its high
// card is Five and it sorts below every other straight.
func straightHigh(mask uint16) (uint8, bool) {
	if run := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4); run != 0 {
		return uint8(bits.Len16(run)-1) + 4, true
	}
	if mask&wheelMask == wheelMask {
		return Five, true
	}
	return 0, false
}

// ranksDesc unpacks set rank bits in descending order. Only the first
// popcount slots are meaningful.
func ranksDesc(mask uint16) [5]uint8 {
	var out [5]uint8
	for n := 0; mask != 0; n++ {
		r := uint8(bits.Len16(mask) - 1)
		out[n] = r
		mask &^= 1 << r
	}
	return out
}

// topRank returns the highest rank set in mask.
func topRank(mask uint16) uint8 {
	return uint8(bits.Len16(mask) - 1)
}

// combos6of5 and combos21of5 index the 5-card subsets of six and seven
// cards, so best-of enumeration walks fixed tables instead of recursing.
var combos6of5 = func() [6][5]uint8 {
	var out [6][5]uint8
	n := 0
	for skip := 0; skip < 6; skip++ {
		k := 0
		for i := 0; i < 6; i++ {
			if i == skip {
				continue
			}
			out[n][k] = uint8(i)
			k++
		}
		n++
	}
	return out
}()

var combos21of5 = func() [21][5]uint8 {
	var out [21][5]uint8
	n := 0
	for skip1 := 0; skip1 < 7; skip1++ {
		for skip2 := skip1 + 1; skip2 < 7; skip2++ {
			k := 0
			for i := 0; i < 7; i++ {
				if i == skip1 || i == skip2 {
					continue
				}
				out[n][k] = uint8(i)
				k++
			}
			n++
		}
	}
	return out
}()
