package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/poker"
	"golang.org/x/sync/errgroup"
)

// Simulations at or above this many trials are split across workers.
const parallelTrialThreshold = 500

// CPU-bound equity workers see diminishing returns beyond a few cores.
const maxEquityWorkers = 8

// fullDeck has all 52 card bits set.
const fullDeck = poker.Hand(1)<<52 - 1

// Result holds one contestant's tallies from a simulation run. Trials is
// the counted denominator and is shared by every contestant in the run.
// Categories counts which hand category the contestant's best five cards
// made, indexed by poker.Category.
type Result struct {
	Wins       uint32
	Ties       uint32
	Trials     uint32
	Categories [poker.NumCategories]uint32
}

// WinFraction returns the fraction of trials this contestant won outright.
func (r Result) WinFraction() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trials)
}

// TieFraction returns the fraction of trials this contestant split at the
// top score.
func (r Result) TieFraction() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Ties) / float64(r.Trials)
}

// LossFraction returns the fraction of trials this contestant lost.
func (r Result) LossFraction() float64 {
	if r.Trials == 0 {
		return 0
	}
	losses := r.Trials - r.Wins - r.Ties
	return float64(losses) / float64(r.Trials)
}

// Equity returns the contestant's pot share, counting wins as 1.0 and
// ties as 0.5.
func (r Result) Equity() float64 {
	if r.Trials == 0 {
		return 0
	}
	return (float64(r.Wins) + 0.5*float64(r.Ties)) / float64(r.Trials)
}

// CategoryFraction returns the fraction of trials where the contestant's
// best hand landed in the given category.
func (r Result) CategoryFraction(cat poker.Category) float64 {
	if r.Trials == 0 || int(cat) >= len(r.Categories) {
		return 0
	}
	return float64(r.Categories[cat]) / float64(r.Trials)
}

// ConfidenceInterval returns the 95% confidence interval for Equity,
// clamped to [0, 1].
func (r Result) ConfidenceInterval() (lower, upper float64) {
	if r.Trials == 0 {
		return 0, 0
	}
	equity := r.Equity()

	// Standard error for a binomial proportion.
	se := math.Sqrt(equity * (1.0 - equity) / float64(r.Trials))
	margin := 1.96 * se

	return math.Max(0, equity-margin), math.Min(1, equity+margin)
}

// MergeResults adds src tallies into dst index by index and returns dst,
// so a long run can be split into batches that share one contestant
// list. A nil dst starts a fresh tally.
func MergeResults(dst, src []Result) []Result {
	if dst == nil {
		dst = make([]Result, len(src))
	}
	for i := range src {
		if i >= len(dst) {
			break
		}
		dst[i].Wins += src[i].Wins
		dst[i].Ties += src[i].Ties
		dst[i].Trials += src[i].Trials
		for c := range src[i].Categories {
			dst[i].Categories[c] += src[i].Categories[c]
		}
	}
	return dst
}

// Contestant is one seat in a simulation: either fixed hole cards, or a
// weighted range the seat's cards are sampled from on every trial.
type Contestant struct {
	descriptor string
	fixed      poker.Hand
	handRange  *Range
}

// ParseContestant parses a hole-card or range descriptor. A descriptor
// that expands to a single combination ("AsKs", "5d4s") pins the seat to
// those cards; anything wider is sampled per trial.
func ParseContestant(descriptor string) (Contestant, error) {
	r, err := ParseRange(descriptor)
	if err != nil {
		return Contestant{}, err
	}
	if r.Size() == 1 {
		return Contestant{descriptor: descriptor, fixed: r.Combos()[0]}, nil
	}
	return Contestant{descriptor: descriptor, handRange: r}, nil
}

// Fixed reports whether the contestant holds concrete hole cards rather
// than a range.
func (c Contestant) Fixed() bool {
	return c.handRange == nil
}

func (c Contestant) String() string {
	return c.descriptor
}

// Simulate runs a Monte Carlo equity simulation. Each trial samples hole
// cards for every ranged contestant consistent with the cards already in
// play, completes the board to five cards, evaluates every seven-card
// hand, and credits the contestant(s) holding the maximum score: a lone
// maximum counts a win, a shared maximum counts a tie for each holder.
// The returned slice is indexed like contestants.
//
// All validation happens before the first trial: trials < 1 is
// ErrInsufficientTrials, a board of more than five cards is
// poker.ErrInvalidHandSize, a fixed card appearing twice is
// ErrConflictingCards, and a specification the deck cannot cover is
// poker.ErrInsufficientCards.
func Simulate(contestants []Contestant, board []poker.Card, trials int, rng *rand.Rand) ([]Result, error) {
	if trials < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInsufficientTrials, trials)
	}
	if len(contestants) == 0 {
		return nil, fmt.Errorf("%w: no contestants", ErrInvalidRange)
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("%w: board has %d cards", poker.ErrInvalidHandSize, len(board))
	}

	// Fixed cards must be pairwise disjoint across the board and every
	// concrete contestant.
	var used poker.Hand
	for _, card := range board {
		if used.HasCard(card) {
			return nil, fmt.Errorf("%w: %s appears twice on the board", ErrConflictingCards, card)
		}
		used.AddCard(card)
	}
	ranged := 0
	for _, c := range contestants {
		if !c.Fixed() {
			ranged++
			continue
		}
		for _, card := range c.fixed.Cards() {
			if used.HasCard(card) {
				return nil, fmt.Errorf("%w: %s held by %q is already in play", ErrConflictingCards, card, c.descriptor)
			}
			used.AddCard(card)
		}
	}

	needed := 5 - len(board) + 2*ranged
	if available := 52 - used.CountCards(); needed > available {
		return nil, fmt.Errorf("%w: need %d cards with %d left in the deck", poker.ErrInsufficientCards, needed, available)
	}

	// A range the fixed cards have emptied would dead-end every trial.
	for _, c := range contestants {
		if !c.Fixed() && c.handRange.EligibleCount(used) == 0 {
			return nil, fmt.Errorf("%w: no combination of %q remains playable", ErrConflictingCards, c.descriptor)
		}
	}

	var tally simTally
	if trials >= parallelTrialThreshold {
		tally = simulateParallel(contestants, board, used, trials, rng)
	} else {
		tally = runTrials(contestants, board, used, trials, rng)
	}

	results := make([]Result, len(contestants))
	for i := range results {
		results[i] = Result{
			Wins:       tally.wins[i],
			Ties:       tally.ties[i],
			Trials:     tally.counted,
			Categories: tally.cats[i],
		}
	}
	return results, nil
}

// simTally accumulates per-contestant counts for a batch of trials.
type simTally struct {
	wins    []uint32
	ties    []uint32
	cats    [][poker.NumCategories]uint32
	counted uint32
}

func newSimTally(n int) simTally {
	return simTally{
		wins: make([]uint32, n),
		ties: make([]uint32, n),
		cats: make([][poker.NumCategories]uint32, n),
	}
}

func (t *simTally) merge(other simTally) {
	for i := range t.wins {
		t.wins[i] += other.wins[i]
		t.ties[i] += other.ties[i]
		for c := range t.cats[i] {
			t.cats[i][c] += other.cats[i][c]
		}
	}
	t.counted += other.counted
}

// boardScratchPool recycles the candidate slice used to complete the
// board, rebuilt once per trial.
var boardScratchPool = sync.Pool{
	New: func() any {
		s := make([]poker.Card, 0, 52)
		return &s
	},
}

// runTrials executes n trials on a single RNG stream. Trials where a
// ranged contestant has no combination left after earlier seats sampled
// are skipped and not counted.
func runTrials(contestants []Contestant, board []poker.Card, baseUsed poker.Hand, n int, rng *rand.Rand) simTally {
	tally := newSimTally(len(contestants))

	holes := make([][2]poker.Card, len(contestants))
	for i, c := range contestants {
		if c.Fixed() {
			cards := c.fixed.Cards()
			holes[i] = [2]poker.Card{cards[0], cards[1]}
		}
	}

	scores := make([]poker.Score, len(contestants))
	boardNeeded := 5 - len(board)

	scratchPtr := boardScratchPool.Get().(*[]poker.Card)
	defer boardScratchPool.Put(scratchPtr)

	var cards [7]poker.Card
	for trial := 0; trial < n; trial++ {
		used := baseUsed

		deadEnd := false
		for i, c := range contestants {
			if c.Fixed() {
				continue
			}
			combo, ok := c.handRange.Sample(rng, used)
			if !ok {
				deadEnd = true
				break
			}
			used |= combo
			lo := combo & -combo
			holes[i] = [2]poker.Card{poker.Card(lo), poker.Card(combo ^ lo)}
		}
		if deadEnd {
			continue
		}

		// Complete the board from the cards still free this trial,
		// swapping drawn candidates to the end to avoid reselection.
		copy(cards[2:], board)
		if boardNeeded > 0 {
			candidates := (*scratchPtr)[:0]
			for m := fullDeck &^ used; m != 0; m &= m - 1 {
				candidates = append(candidates, poker.Card(m&-m))
			}
			for k := 0; k < boardNeeded; k++ {
				idx := rng.IntN(len(candidates) - k)
				cards[2+len(board)+k] = candidates[idx]
				last := len(candidates) - 1 - k
				candidates[idx], candidates[last] = candidates[last], candidates[idx]
			}
		}

		for i := range contestants {
			cards[0], cards[1] = holes[i][0], holes[i][1]
			scores[i] = poker.Evaluate7(&cards)
			tally.cats[i][scores[i].Category()]++
		}

		best, winner, tied := scores[0], 0, false
		for i := 1; i < len(scores); i++ {
			switch {
			case scores[i] > best:
				best, winner, tied = scores[i], i, false
			case scores[i] == best:
				tied = true
			}
		}
		if tied {
			for i, s := range scores {
				if s == best {
					tally.ties[i]++
				}
			}
		} else {
			tally.wins[winner]++
		}
		tally.counted++
	}
	return tally
}

// simulateParallel splits trials across workers, each on an independent
// RNG stream split from rng, and merges the partial tallies after the
// join.
func simulateParallel(contestants []Contestant, board []poker.Card, baseUsed poker.Hand, trials int, rng *rand.Rand) simTally {
	workers := runtime.NumCPU()
	if workers > maxEquityWorkers {
		workers = maxEquityWorkers
	}

	perWorker := trials / workers
	remainder := trials % workers

	g, ctx := errgroup.WithContext(context.Background())
	partials := make(chan simTally, workers)

	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		workerRng := randutil.Split(rng)

		g.Go(func() error {
			part := runTrials(contestants, board, baseUsed, n, workerRng)
			select {
			case partials <- part:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(partials)
		g.Wait()
	}()

	tally := newSimTally(len(contestants))
	for part := range partials {
		tally.merge(part)
	}

	if err := g.Wait(); err != nil {
		// A worker was interrupted; rerun on the caller's stream.
		return runTrials(contestants, board, baseUsed, trials, rng)
	}
	return tally
}

// Equity parses contestant descriptors and board card codes and runs
// Simulate. Descriptors follow the grammar accepted by ParseRange; board
// entries are card codes like "Ah" and the board may be empty.
func Equity(descriptors []string, board []string, trials int, rng *rand.Rand) ([]Result, error) {
	contestants := make([]Contestant, 0, len(descriptors))
	for _, d := range descriptors {
		c, err := ParseContestant(d)
		if err != nil {
			return nil, err
		}
		contestants = append(contestants, c)
	}
	boardCards, err := parseBoard(board)
	if err != nil {
		return nil, err
	}
	return Simulate(contestants, boardCards, trials, rng)
}

func parseBoard(board []string) ([]poker.Card, error) {
	var cards []poker.Card
	for _, code := range board {
		parsed, err := poker.ParseCards(code)
		if err != nil {
			return nil, fmt.Errorf("board: %w", err)
		}
		cards = append(cards, parsed...)
	}
	return cards, nil
}

// EvalRanges runs hero against each villain range in turn, preflop, and
// returns the hero's equity per matchup. Villain descriptors may be
// percentile numbers, e.g. "15" for the top 15% of starting hands.
func EvalRanges(hero string, villains []string, trials int, rng *rand.Rand) ([]float64, error) {
	heroContestant, err := ParseContestant(hero)
	if err != nil {
		return nil, err
	}

	equities := make([]float64, len(villains))
	for i, villain := range villains {
		villainContestant, err := ParseContestant(villain)
		if err != nil {
			return nil, err
		}
		results, err := Simulate([]Contestant{heroContestant, villainContestant}, nil, trials, rng)
		if err != nil {
			return nil, err
		}
		equities[i] = results[0].Equity()
	}
	return equities, nil
}
