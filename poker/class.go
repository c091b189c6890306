package poker

import "fmt"

// HoleClass names a two-card starting class: "AA" for a pair, "AKs" for
// suited, "ATo" for offsuit, high rank first. The 169 classes cover all
// 1326 concrete combos.
type HoleClass string

// MakeHoleClass builds a class name from two ranks. Order of hi and lo
// does not matter, and suited is ignored for pairs.
func MakeHoleClass(hi, lo uint8, suited bool) HoleClass {
	if hi < lo {
		hi, lo = lo, hi
	}
	if hi == lo {
		return HoleClass([]byte{rankChars[hi], rankChars[lo]})
	}
	mod := byte('o')
	if suited {
		mod = 's'
	}
	return HoleClass([]byte{rankChars[hi], rankChars[lo], mod})
}

// ClassOfCards returns the class of two distinct hole cards.
func ClassOfCards(c1, c2 Card) HoleClass {
	return MakeHoleClass(c1.Rank(), c2.Rank(), c1.Suit() == c2.Suit())
}

// ClassOfHand returns the class of a two-card hand.
func ClassOfHand(h Hand) (HoleClass, error) {
	cards := h.Cards()
	if len(cards) != 2 {
		return "", fmt.Errorf("%w: class needs exactly 2 cards, got %d", ErrInvalidHandSize, len(cards))
	}
	return ClassOfCards(cards[0], cards[1]), nil
}

// ParseHoleClass parses and canonicalizes a class name. Pairs take no
// suffix; unpaired classes need an explicit 's' or 'o'.
func ParseHoleClass(s string) (HoleClass, error) {
	if len(s) != 2 && len(s) != 3 {
		return "", fmt.Errorf("invalid hand class %q", s)
	}
	hi, ok := parseRankChar(s[0])
	if !ok {
		return "", fmt.Errorf("invalid hand class %q: bad rank %q", s, s[0])
	}
	lo, ok := parseRankChar(s[1])
	if !ok {
		return "", fmt.Errorf("invalid hand class %q: bad rank %q", s, s[1])
	}
	if hi == lo {
		if len(s) != 2 {
			return "", fmt.Errorf("invalid hand class %q: pairs take no suffix", s)
		}
		return MakeHoleClass(hi, lo, false), nil
	}
	if len(s) != 3 {
		return "", fmt.Errorf("invalid hand class %q: missing suited or offsuit suffix", s)
	}
	switch lowerByte(s[2]) {
	case 's':
		return MakeHoleClass(hi, lo, true), nil
	case 'o':
		return MakeHoleClass(hi, lo, false), nil
	}
	return "", fmt.Errorf("invalid hand class %q: bad suffix %q", s, s[2])
}

// parseRankChar maps a rank character to its index, accepting either case.
func parseRankChar(b byte) (uint8, bool) {
	for i := 0; i < len(rankChars); i++ {
		if rankChars[i] == upperByte(b) {
			return uint8(i), true
		}
	}
	return 0, false
}

// Pair reports whether the class is a pocket pair.
func (hc HoleClass) Pair() bool {
	return len(hc) == 2
}

// Suited reports whether the class is suited.
func (hc HoleClass) Suited() bool {
	return len(hc) == 3 && hc[2] == 's'
}

// Ranks returns the class's high and low rank indices.
func (hc HoleClass) Ranks() (hi, lo uint8) {
	hi, _ = parseRankChar(hc[0])
	lo, _ = parseRankChar(hc[1])
	return hi, lo
}

// Combos returns every concrete combo in the class: 6 for a pair, 4
// suited, 12 offsuit.
func (hc HoleClass) Combos() []Hand {
	hi, lo := hc.Ranks()
	var combos []Hand
	switch {
	case hc.Pair():
		combos = make([]Hand, 0, 6)
		for s1 := uint8(0); s1 < 4; s1++ {
			for s2 := s1 + 1; s2 < 4; s2++ {
				combos = append(combos, NewHand(NewCard(hi, s1), NewCard(hi, s2)))
			}
		}
	case hc.Suited():
		combos = make([]Hand, 0, 4)
		for s := uint8(0); s < 4; s++ {
			combos = append(combos, NewHand(NewCard(hi, s), NewCard(lo, s)))
		}
	default:
		combos = make([]Hand, 0, 12)
		for s1 := uint8(0); s1 < 4; s1++ {
			for s2 := uint8(0); s2 < 4; s2++ {
				if s1 == s2 {
					continue
				}
				combos = append(combos, NewHand(NewCard(hi, s1), NewCard(lo, s2)))
			}
		}
	}
	return combos
}

// AllHoleClasses lists the 169 classes, pairs then suited then offsuit,
// descending by rank within each group.
func AllHoleClasses() []HoleClass {
	classes := make([]HoleClass, 0, 169)
	for hi := int(Ace); hi >= int(Two); hi-- {
		classes = append(classes, MakeHoleClass(uint8(hi), uint8(hi), false))
	}
	for _, suited := range []bool{true, false} {
		for hi := int(Ace); hi >= int(Two); hi-- {
			for lo := hi - 1; lo >= int(Two); lo-- {
				classes = append(classes, MakeHoleClass(uint8(hi), uint8(lo), suited))
			}
		}
	}
	return classes
}
