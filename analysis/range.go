// Package analysis provides hand range expansion and Monte Carlo equity
// estimation on top of the poker package.
package analysis

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/lox/pokerequity/poker"
)

const defaultWeight = 1.0

// Range is a weighted set of two-card combos. Ranges are built by
// ParseRange and immutable afterwards, so they are safe to share across
// goroutines.
type Range struct {
	weights map[poker.Hand]float64

	// combos and comboWeights carry the same data flattened for the
	// sampling hot path, sorted by hand for determinism.
	combos       []poker.Hand
	comboWeights []float64
}

// ParseRange expands a range descriptor into concrete combos. Terms are
// separated by whitespace or commas and unioned:
//
//	"AsKd"          one concrete combo
//	"AA"            a pair class, 6 combos
//	"AKs" / "ATo"   suited (4) and offsuit (12) classes
//	"AK"            both suitednesses, 16 combos
//	"TT+", "ATs+"   that class and everything above it
//	"22-66"         a span of classes
//	"25.5"          the top 25.5% of classes by strength
//
// A term made of rank characters is always read as a class, so "22" is
// the pair of twos; write a percentile with a decimal point when it
// would otherwise spell a class.
func ParseRange(descriptor string) (*Range, error) {
	r := &Range{weights: make(map[poker.Hand]float64)}

	for _, term := range strings.FieldsFunc(descriptor, isTermSeparator) {
		if err := r.addTerm(term); err != nil {
			return nil, fmt.Errorf("%w: term %q: %v", ErrInvalidRange, term, err)
		}
	}
	if len(r.weights) == 0 {
		return nil, fmt.Errorf("%w: %q expands to no combos", ErrInvalidRange, descriptor)
	}

	r.finalize()
	return r, nil
}

// MustParseRange is ParseRange for descriptors known to be valid.
func MustParseRange(descriptor string) *Range {
	r, err := ParseRange(descriptor)
	if err != nil {
		panic(err)
	}
	return r
}

func isTermSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

// addTerm dispatches one descriptor term on its shape.
func (r *Range) addTerm(term string) error {
	switch {
	case strings.ContainsRune(term, '+'):
		return r.addPlusRange(term)
	case isDashRange(term):
		return r.addDashRange(term)
	}

	if len(term) == 4 {
		if h, err := poker.ParseHand(term); err == nil {
			if h.CountCards() != 2 {
				return fmt.Errorf("combo %q repeats a card", term)
			}
			r.add(h, defaultWeight)
			return nil
		}
	}

	if isClassShaped(term) {
		return r.addClassTerm(term)
	}

	if p, err := strconv.ParseFloat(term, 64); err == nil {
		return r.addPercentile(p)
	}

	return fmt.Errorf("unrecognized term")
}

// addClassTerm adds a class like "AA", "AKs", "ATo" or the bare "AK",
// which covers both suitednesses.
func (r *Range) addClassTerm(term string) error {
	rank1 := parseRank(term[0])
	rank2 := parseRank(term[1])
	hi, lo := uint8(max(rank1, rank2)), uint8(min(rank1, rank2))

	if rank1 == rank2 {
		if len(term) != 2 {
			return fmt.Errorf("pairs take no suited or offsuit modifier")
		}
		r.addClass(poker.MakeHoleClass(hi, lo, false), defaultWeight)
		return nil
	}

	if len(term) == 2 {
		r.addClass(poker.MakeHoleClass(hi, lo, true), defaultWeight)
		r.addClass(poker.MakeHoleClass(hi, lo, false), defaultWeight)
		return nil
	}

	switch term[2] {
	case 's', 'S':
		r.addClass(poker.MakeHoleClass(hi, lo, true), defaultWeight)
	case 'o', 'O':
		r.addClass(poker.MakeHoleClass(hi, lo, false), defaultWeight)
	default:
		return fmt.Errorf("invalid modifier %q", term[2])
	}
	return nil
}

// addPlusRange handles "TT+" (pairs tens and up) and "ATs+" (ace-ten
// suited through ace-king suited).
func (r *Range) addPlusRange(term string) error {
	base, found := strings.CutSuffix(term, "+")
	if !found || strings.ContainsRune(base, '+') || !isClassShaped(base) {
		return fmt.Errorf("invalid plus range")
	}

	rank1 := parseRank(base[0])
	rank2 := parseRank(base[1])
	hi, lo := uint8(max(rank1, rank2)), uint8(min(rank1, rank2))

	if rank1 == rank2 {
		if len(base) != 2 {
			return fmt.Errorf("pairs take no suited or offsuit modifier")
		}
		for rank := hi; rank <= poker.Ace; rank++ {
			r.addClass(poker.MakeHoleClass(rank, rank, false), defaultWeight)
		}
		return nil
	}

	suited, offsuit, err := suitednessOf(base)
	if err != nil {
		return err
	}
	// Walk the kicker up to one below the high card.
	for kicker := lo; kicker < hi; kicker++ {
		if suited {
			r.addClass(poker.MakeHoleClass(hi, kicker, true), defaultWeight)
		}
		if offsuit {
			r.addClass(poker.MakeHoleClass(hi, kicker, false), defaultWeight)
		}
	}
	return nil
}

// addDashRange handles "22-66" (a span of pairs) and "A5s-A2s" (a span of
// kickers under the same high card).
func (r *Range) addDashRange(term string) error {
	first, second, _ := strings.Cut(term, "-")
	if !isClassShaped(first) || !isClassShaped(second) {
		return fmt.Errorf("invalid dash range")
	}

	f1, f2 := parseRank(first[0]), parseRank(first[1])
	s1, s2 := parseRank(second[0]), parseRank(second[1])

	// Pair span.
	if f1 == f2 && s1 == s2 {
		if len(first) != 2 || len(second) != 2 {
			return fmt.Errorf("pairs take no suited or offsuit modifier")
		}
		for rank := min(f1, s1); rank <= max(f1, s1); rank++ {
			r.addClass(poker.MakeHoleClass(uint8(rank), uint8(rank), false), defaultWeight)
		}
		return nil
	}
	if f1 == f2 || s1 == s2 {
		return fmt.Errorf("dash range mixes pairs and unpaired hands")
	}

	fHi, fLo := max(f1, f2), min(f1, f2)
	sHi, sLo := max(s1, s2), min(s1, s2)
	if fHi != sHi {
		return fmt.Errorf("dash range needs a shared high card")
	}

	fSuited, fOffsuit, err := suitednessOf(first)
	if err != nil {
		return err
	}
	sSuited, sOffsuit, err := suitednessOf(second)
	if err != nil {
		return err
	}
	if fSuited != sSuited || fOffsuit != sOffsuit {
		return fmt.Errorf("dash range mixes suited and offsuit")
	}

	for kicker := min(fLo, sLo); kicker <= max(fLo, sLo); kicker++ {
		if fSuited {
			r.addClass(poker.MakeHoleClass(uint8(fHi), uint8(kicker), true), defaultWeight)
		}
		if fOffsuit {
			r.addClass(poker.MakeHoleClass(uint8(fHi), uint8(kicker), false), defaultWeight)
		}
	}
	return nil
}

// addPercentile adds the top p percent of starting classes by strength.
func (r *Range) addPercentile(p float64) error {
	if p <= 0 || p > 100 {
		return fmt.Errorf("percentile %v outside (0, 100]", p)
	}
	threshold := 1 - p/100
	for class, strength := range classRankings {
		if strength >= threshold {
			r.addClass(class, defaultWeight)
		}
	}
	return nil
}

func (r *Range) addClass(class poker.HoleClass, weight float64) {
	for _, combo := range class.Combos() {
		r.add(combo, weight)
	}
}

func (r *Range) add(combo poker.Hand, weight float64) {
	r.weights[combo] = weight
}

// finalize flattens the weight map into parallel slices for sampling.
func (r *Range) finalize() {
	r.combos = make([]poker.Hand, 0, len(r.weights))
	for combo := range r.weights {
		r.combos = append(r.combos, combo)
	}
	slices.Sort(r.combos)
	r.comboWeights = make([]float64, len(r.combos))
	for i, combo := range r.combos {
		r.comboWeights[i] = r.weights[combo]
	}
}

// suitednessOf reads the modifier of an unpaired class term; a bare
// two-character term covers both.
func suitednessOf(term string) (suited, offsuit bool, err error) {
	if len(term) == 2 {
		return true, true, nil
	}
	switch term[2] {
	case 's', 'S':
		return true, false, nil
	case 'o', 'O':
		return false, true, nil
	}
	return false, false, fmt.Errorf("invalid modifier %q", term[2])
}

// isClassShaped reports whether a term looks like a class name: two rank
// characters with an optional third modifier character.
func isClassShaped(term string) bool {
	if len(term) != 2 && len(term) != 3 {
		return false
	}
	return parseRank(term[0]) >= 0 && parseRank(term[1]) >= 0
}

func isDashRange(term string) bool {
	first, second, found := strings.Cut(term, "-")
	return found && isClassShaped(first) && isClassShaped(second)
}

// parseRank converts a rank character to its index (Two=0..Ace=12), or -1.
func parseRank(c byte) int {
	switch c {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return int(c-'2')
	case 'T', 't':
		return int(poker.Ten)
	case 'J', 'j':
		return int(poker.Jack)
	case 'Q', 'q':
		return int(poker.Queen)
	case 'K', 'k':
		return int(poker.King)
	case 'A', 'a':
		return int(poker.Ace)
	default:
		return -1
	}
}

// Size returns the number of combos in the range.
func (r *Range) Size() int {
	return len(r.combos)
}

// Combos returns the range's combos sorted by hand value.
func (r *Range) Combos() []poker.Hand {
	return slices.Clone(r.combos)
}

// Weight returns the weight of a combo, zero if absent.
func (r *Range) Weight(combo poker.Hand) float64 {
	return r.weights[combo]
}

// ContainsHand reports whether the exact two-card combo is in the range.
func (r *Range) ContainsHand(combo poker.Hand) bool {
	_, ok := r.weights[combo]
	return ok
}

// ContainsCards reports whether the combo of two cards is in the range.
func (r *Range) ContainsCards(c1, c2 poker.Card) bool {
	return r.ContainsHand(poker.NewHand(c1, c2))
}

// Without returns a copy of the range with combos touching dead removed.
// The copy may be empty.
func (r *Range) Without(dead poker.Hand) *Range {
	out := &Range{weights: make(map[poker.Hand]float64, len(r.weights))}
	for combo, weight := range r.weights {
		if !combo.Overlaps(dead) {
			out.weights[combo] = weight
		}
	}
	out.finalize()
	return out
}

// EligibleCount returns how many combos avoid the used cards.
func (r *Range) EligibleCount(used poker.Hand) int {
	n := 0
	for _, combo := range r.combos {
		if !combo.Overlaps(used) {
			n++
		}
	}
	return n
}

// sampleScratchPool recycles the eligible-combo scratch used by Sample,
// which runs once per ranged contestant per trial.
var sampleScratchPool = sync.Pool{
	New: func() any {
		s := make([]int, 0, 1326)
		return &s
	},
}

// Sample draws a weighted combo sharing no card with used. It returns
// false when every combo collides.
func (r *Range) Sample(rng *rand.Rand, used poker.Hand) (poker.Hand, bool) {
	scratchPtr := sampleScratchPool.Get().(*[]int)
	defer sampleScratchPool.Put(scratchPtr)
	eligible := (*scratchPtr)[:0]

	total := 0.0
	for i, combo := range r.combos {
		if combo.Overlaps(used) {
			continue
		}
		eligible = append(eligible, i)
		total += r.comboWeights[i]
	}
	if len(eligible) == 0 {
		return 0, false
	}

	target := rng.Float64() * total
	for _, i := range eligible {
		target -= r.comboWeights[i]
		if target <= 0 {
			return r.combos[i], true
		}
	}
	return r.combos[eligible[len(eligible)-1]], true
}
