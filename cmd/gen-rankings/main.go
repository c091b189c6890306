package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/internal/fileutil"
	"github.com/lox/pokerequity/internal/randutil"
)

func main() {
	trials := flag.Int("trials", 20000, "Trials per hole class")
	output := flag.String("output", "rankings.go", "Output file for generated Go code")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	table, err := analysis.GenerateRankingsTable(*trials, randutil.New(*seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gen-rankings: %v\n", err)
		os.Exit(1)
	}

	if err := fileutil.WriteSourceAtomic(*output, []byte(table.GenerateGoCode()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "gen-rankings: %v\n", err)
		os.Exit(1)
	}
}
