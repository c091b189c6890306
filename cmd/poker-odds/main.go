package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/poker"
)

type CLI struct {
	Hands         []string `arg:"" required:"" help:"Hole cards or ranges per seat, e.g. 'AsKs' 'QQ+' '25'"`
	Board         string   `short:"b" help:"Community cards already dealt (e.g. 'Td7s8h')"`
	Possibilities bool     `short:"p" help:"Show hand category frequencies per seat"`
	Trials        int      `short:"t" default:"100000" help:"Number of Monte Carlo trials"`
	Seed          *int64   `help:"Random seed for reproducible results"`
	NoColor       bool     `help:"Disable colored output"`
}

type styles struct {
	header   lipgloss.Style
	hand     lipgloss.Style
	win      lipgloss.Style
	tie      lipgloss.Style
	category lipgloss.Style
	percent  lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			header:   plain,
			hand:     plain,
			win:      plain,
			tie:      plain,
			category: plain,
			percent:  plain,
		}
	}
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		hand:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		win:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tie:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		category: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		percent:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Monte Carlo equity for hold'em hands and ranges."))

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	rng := randutil.New(seed)

	contestants, err := parseContestants(cli.Hands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		ctx.Exit(1)
	}

	var board []poker.Card
	if cli.Board != "" {
		board, err = poker.ParseCards(cli.Board)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			ctx.Exit(1)
		}
	}

	start := time.Now()
	results, err := analysis.Simulate(contestants, board, cli.Trials, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	elapsed := time.Since(start)

	st := newStyles(cli.NoColor)
	displayResults(os.Stdout, st, contestants, results, board, cli.Possibilities)
	fmt.Printf("\n%d trials in %v (seed %d)\n", results[0].Trials, elapsed.Truncate(time.Millisecond), seed)
}

func parseContestants(descriptors []string) ([]analysis.Contestant, error) {
	contestants := make([]analysis.Contestant, 0, len(descriptors))
	for i, d := range descriptors {
		c, err := analysis.ParseContestant(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		contestants = append(contestants, c)
	}
	return contestants, nil
}

func displayResults(w io.Writer, st styles, contestants []analysis.Contestant, results []analysis.Result, board []poker.Card, possibilities bool) {
	if len(board) > 0 {
		fmt.Fprintf(w, "%s\n%s\n\n", st.header.Render("board"), formatCards(board))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		st.header.Render("hand"),
		st.header.Render("win"),
		st.header.Render("tie"),
		st.header.Render("equity"))

	for i, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			st.hand.Render(contestants[i].String()),
			st.win.Render(fmt.Sprintf("%.1f%%", r.WinFraction()*100)),
			st.tie.Render(fmt.Sprintf("%.1f%%", r.TieFraction()*100)),
			st.percent.Render(fmt.Sprintf("%.1f%%", r.Equity()*100)))
	}
	tw.Flush()

	if possibilities {
		fmt.Fprintln(w)
		displayPossibilities(w, st, contestants, results)
	}
}

// displayPossibilities prints how often each seat made each hand
// category, strongest category first. Categories nobody made are
// omitted.
func displayPossibilities(w io.Writer, st styles, contestants []analysis.Contestant, results []analysis.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s", st.category.Render("hand"))
	for i := range contestants {
		fmt.Fprintf(tw, "\t%s", st.hand.Render(contestants[i].String()))
	}
	fmt.Fprintln(tw)

	for c := poker.NumCategories - 1; c >= 0; c-- {
		cat := poker.Category(c)
		anyone := false
		for _, r := range results {
			if r.Categories[cat] > 0 {
				anyone = true
				break
			}
		}
		if !anyone {
			continue
		}

		fmt.Fprintf(tw, "%s", st.category.Render(cat.String()))
		for _, r := range results {
			if r.Categories[cat] > 0 {
				pct := r.CategoryFraction(cat) * 100
				fmt.Fprintf(tw, "\t%s", st.percent.Render(fmt.Sprintf("%.1f%%", pct)))
			} else {
				fmt.Fprintf(tw, "\t%s", st.percent.Render("."))
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

func formatCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
