package analysis

//go:generate go run ../cmd/gen-rankings/main.go -trials=20000 -output=rankings.go

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/lox/pokerequity/poker"
)

// ClassEquity pairs a canonical starting-hand class with its simulated
// heads-up equity against a uniform random opponent.
type ClassEquity struct {
	Class    poker.HoleClass
	Equity   float64
	Strength float64
}

// RankingsTable orders all 169 canonical starting-hand classes by
// simulated equity, strongest first.
type RankingsTable struct {
	Entries []ClassEquity
}

// GenerateRankingsTable ranks every canonical starting-hand class by
// Monte Carlo equity against a uniform random opponent and assigns each
// a percentile strength in [0, 1], 1.0 being the strongest class.
// trialsPerClass sets the simulation depth per class.
func GenerateRankingsTable(trialsPerClass int, rng *rand.Rand) (*RankingsTable, error) {
	randomOpponent, err := ParseRange("100")
	if err != nil {
		return nil, err
	}

	classes := poker.AllHoleClasses()
	entries := make([]ClassEquity, 0, len(classes))
	for _, class := range classes {
		// Equity is suit-symmetric, so one representative combo per
		// class is enough.
		hero := Contestant{descriptor: string(class), fixed: class.Combos()[0]}
		villain := Contestant{descriptor: "random", handRange: randomOpponent}

		results, err := Simulate([]Contestant{hero, villain}, nil, trialsPerClass, rng)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ClassEquity{Class: class, Equity: results[0].Equity()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Equity > entries[j].Equity
	})

	span := float64(len(entries) - 1)
	for i := range entries {
		entries[i].Strength = math.Round(1000*(span-float64(i))/span) / 1000
	}

	return &RankingsTable{Entries: entries}, nil
}

// Strength returns the table's percentile strength for a class. The
// second return is false for names outside the table.
func (t *RankingsTable) Strength(class poker.HoleClass) (float64, bool) {
	for _, e := range t.Entries {
		if e.Class == class {
			return e.Strength, true
		}
	}
	return 0, false
}

// GenerateGoCode renders the table as the source of rankings.go, so the
// curated strengths can be refreshed from self-play.
func (t *RankingsTable) GenerateGoCode() string {
	var sb strings.Builder

	sb.WriteString("// Code generated by gen-rankings. DO NOT EDIT.\n\n")
	sb.WriteString("package analysis\n\n")
	sb.WriteString("import \"github.com/lox/pokerequity/poker\"\n\n")
	sb.WriteString("// classRankings maps each starting class to its percentile strength\n")
	sb.WriteString("// (1.0 = best, 0.0 = worst), measured by heads-up equity against a\n")
	sb.WriteString("// uniform random opponent.\n")
	sb.WriteString("var classRankings = map[poker.HoleClass]float64{\n")
	for _, e := range t.Entries {
		sb.WriteString(fmt.Sprintf("\t%q: %.3f, // equity %.4f\n", e.Class, e.Strength, e.Equity))
	}
	sb.WriteString("}\n\n")
	sb.WriteString("// ClassStrength returns the percentile strength of a starting class\n")
	sb.WriteString("// (1.0 = best). The second return is false for names outside the table.\n")
	sb.WriteString("func ClassStrength(class poker.HoleClass) (float64, bool) {\n")
	sb.WriteString("\tstrength, ok := classRankings[class]\n")
	sb.WriteString("\treturn strength, ok\n")
	sb.WriteString("}\n\n")
	sb.WriteString("// HandStrength returns the percentile strength of two hole cards.\n")
	sb.WriteString("func HandStrength(c1, c2 poker.Card) float64 {\n")
	sb.WriteString("\treturn classRankings[poker.ClassOfCards(c1, c2)]\n")
	sb.WriteString("}\n")

	return sb.String()
}
