package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"

	"github.com/lox/pokerequity/internal/randutil"
)

// referenceCard converts to the reference evaluator's encoding, which
// numbers ranks 1..13 with the ace low.
func referenceCard(t testing.TB, c Card) ph.Card {
	t.Helper()
	var suit ph.Suit
	switch c.Suit() {
	case Clubs:
		suit = ph.Club
	case Diamonds:
		suit = ph.Diamond
	case Hearts:
		suit = ph.Heart
	case Spades:
		suit = ph.Spade
	}
	rank := ph.Rank(c.Rank() + 2)
	if c.Rank() == Ace {
		rank = ph.Rank(1)
	}
	card, err := ph.MakeCard(suit, rank)
	if err != nil {
		t.Fatalf("reference card for %s: %v", c, err)
	}
	return card
}

func referenceEval7(t testing.TB, cards []Card) int16 {
	t.Helper()
	var seven [7]ph.Card
	for i, c := range cards {
		seven[i] = referenceCard(t, c)
	}
	return ph.Eval7(&seven)
}

func referenceEval5(t testing.TB, cards []Card) int16 {
	t.Helper()
	var five [5]ph.Card
	for i, c := range cards {
		five[i] = referenceCard(t, c)
	}
	return ph.Eval5(&five)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// TestEvaluateMatchesReference7 checks, over random deals, that our
// ordering of seven-card hands agrees with the reference evaluator's.
func TestEvaluateMatchesReference7(t *testing.T) {
	t.Parallel()
	rng := randutil.New(1234)
	deck := NewDeck(rng)

	const rounds = 2000
	for i := 0; i < rounds; i++ {
		deck.Reset()
		a, err := deck.Draw(7)
		if err != nil {
			t.Fatal(err)
		}
		b, err := deck.Draw(7)
		if err != nil {
			t.Fatal(err)
		}

		var sevenA, sevenB [7]Card
		copy(sevenA[:], a)
		copy(sevenB[:], b)
		got := CompareScores(Evaluate7(&sevenA), Evaluate7(&sevenB))

		refA, refB := referenceEval7(t, a), referenceEval7(t, b)
		want := sign(int(refA) - int(refB))

		if got != want {
			t.Fatalf("round %d: Compare(%v, %v) = %d, reference says %d", i, a, b, got, want)
		}
	}
}

// TestEvaluateMatchesReference5 does the same for bare five-card hands.
func TestEvaluateMatchesReference5(t *testing.T) {
	t.Parallel()
	rng := randutil.New(987)
	deck := NewDeck(rng)

	const rounds = 2000
	for i := 0; i < rounds; i++ {
		deck.Reset()
		a, err := deck.Draw(5)
		if err != nil {
			t.Fatal(err)
		}
		b, err := deck.Draw(5)
		if err != nil {
			t.Fatal(err)
		}

		var fiveA, fiveB [5]Card
		copy(fiveA[:], a)
		copy(fiveB[:], b)
		got := CompareScores(Evaluate5(&fiveA), Evaluate5(&fiveB))

		refA, refB := referenceEval5(t, a), referenceEval5(t, b)
		want := sign(int(refA) - int(refB))

		if got != want {
			t.Fatalf("round %d: Compare(%v, %v) = %d, reference says %d", i, a, b, got, want)
		}
	}
}
