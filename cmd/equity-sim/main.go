package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/internal/progress"
	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/internal/scenario"
)

// Long runs are split into batches so the progress reporter has
// something to count between reports.
const batchTrials = 10000

type CLI struct {
	Scenarios string        `arg:"" required:"" type:"existingfile" help:"Path to an HCL scenario file"`
	Only      string        `help:"Run a single scenario by name"`
	Seed      int64         `default:"0" help:"Override every scenario seed (0 keeps per-scenario seeds)"`
	Interval  time.Duration `default:"5s" help:"Progress report interval"`
	Verbose   bool          `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("equity-sim"),
		kong.Description("Run batches of equity simulations from a scenario file."))

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	file, err := scenario.Load(cli.Scenarios)
	if err != nil {
		logger.Fatal("failed to load scenarios", "error", err)
	}

	scenarios := file.Scenarios
	if cli.Only != "" {
		scenarios = nil
		for _, s := range file.Scenarios {
			if s.Name == cli.Only {
				scenarios = append(scenarios, s)
			}
		}
		if len(scenarios) == 0 {
			logger.Fatal("scenario not found", "name", cli.Only)
		}
	}

	clock := quartz.NewReal()
	failed := 0
	for i := range scenarios {
		s := &scenarios[i]

		seed := s.Seed
		if cli.Seed != 0 {
			seed = cli.Seed
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		logger.Debug("starting scenario", "name", s.Name, "trials", s.Trials, "seed", seed)
		start := time.Now()
		results, err := runScenario(s, seed, clock, cli.Interval, logger)
		if err != nil {
			logger.Error("scenario failed", "name", s.Name, "error", err)
			failed++
			continue
		}
		displayScenario(os.Stdout, s, results, seed, time.Since(start))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// runScenario simulates one scenario in batches on a single RNG stream,
// feeding the progress reporter between batches.
func runScenario(s *scenario.Scenario, seed int64, clock quartz.Clock, interval time.Duration, logger *log.Logger) ([]analysis.Result, error) {
	contestants := make([]analysis.Contestant, 0, len(s.Hands))
	for _, h := range s.Hands {
		c, err := analysis.ParseContestant(h)
		if err != nil {
			return nil, err
		}
		contestants = append(contestants, c)
	}
	board, err := s.BoardCards()
	if err != nil {
		return nil, err
	}

	rng := randutil.New(seed)
	reporter := progress.New(logger.With("scenario", s.Name), clock, interval, uint64(s.Trials))
	reporter.Start()
	defer reporter.Stop()

	var combined []analysis.Result
	for remaining := s.Trials; remaining > 0; {
		batch := batchTrials
		if batch > remaining {
			batch = remaining
		}
		results, err := analysis.Simulate(contestants, board, batch, rng)
		if err != nil {
			return nil, err
		}
		combined = analysis.MergeResults(combined, results)
		reporter.Add(uint64(results[0].Trials))
		remaining -= batch
	}
	return combined, nil
}

func displayScenario(w io.Writer, s *scenario.Scenario, results []analysis.Result, seed int64, elapsed time.Duration) {
	fmt.Fprintf(w, "scenario %s (%d trials in %v, seed %d)\n",
		s.Name, results[0].Trials, elapsed.Truncate(time.Millisecond), seed)
	if s.Board != "" {
		fmt.Fprintf(w, "board %s\n", s.Board)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "hand\twin\ttie\tequity\t95% ci")
	for i, r := range results {
		lower, upper := r.ConfidenceInterval()
		fmt.Fprintf(tw, "%s\t%.1f%%\t%.1f%%\t%.1f%%\t[%.1f%%, %.1f%%]\n",
			s.Hands[i],
			r.WinFraction()*100,
			r.TieFraction()*100,
			r.Equity()*100,
			lower*100,
			upper*100)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
