package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/poker"
)

type CLI struct {
	Hands  []string `arg:"" required:"" help:"Hole cards or ranges per seat, e.g. 'AsKs' 'QQ+' '25'"`
	Board  string   `short:"b" help:"Community cards already dealt (e.g. 'Td7s8h')"`
	Trials int      `short:"t" default:"500000" help:"Total trials to run"`
	Batch  int      `default:"2000" help:"Trials simulated between screen updates"`
	Seed   *int64   `help:"Random seed for reproducible results"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("equity-watch"),
		kong.Description("Watch a Monte Carlo equity estimate converge live."))

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	contestants := make([]analysis.Contestant, 0, len(cli.Hands))
	for i, d := range cli.Hands {
		c, err := analysis.ParseContestant(d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing hand %d: %v\n", i+1, err)
			ctx.Exit(1)
		}
		contestants = append(contestants, c)
	}

	var board []poker.Card
	if cli.Board != "" {
		var err error
		board, err = poker.ParseCards(cli.Board)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			ctx.Exit(1)
		}
	}

	m := newWatchModel(contestants, board, cli.Trials, cli.Batch, seed)
	program := tea.NewProgram(m, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}

	// The alt screen is gone by now; leave a summary behind.
	if w, ok := final.(*watchModel); ok {
		if w.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", w.err)
			ctx.Exit(1)
		}
		w.printSummary(os.Stdout)
	}
}
