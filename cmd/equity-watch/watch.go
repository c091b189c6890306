package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/poker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	handStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	boardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// batchMsg carries the results of one simulation batch back into the
// update loop.
type batchMsg struct {
	results []analysis.Result
	err     error
}

// watchModel is the Bubble Tea model for the convergence viewer. Batches
// run one at a time, so the RNG stream is only ever touched by the
// single in-flight command.
type watchModel struct {
	contestants []analysis.Contestant
	board       []poker.Card
	rng         *rand.Rand
	seed        int64

	target int
	batch  int
	issued int

	results  []analysis.Result
	err      error
	paused   bool
	inFlight bool
	quitting bool
	start    time.Time

	bar   progress.Model
	width int
}

func newWatchModel(contestants []analysis.Contestant, board []poker.Card, target, batch int, seed int64) *watchModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50

	return &watchModel{
		contestants: contestants,
		board:       board,
		rng:         randutil.New(seed),
		seed:        seed,
		target:      target,
		batch:       batch,
		start:       time.Now(),
		bar:         bar,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return m.runBatch()
}

// runBatch schedules the next simulation batch, clamped to the trials
// still owed.
func (m *watchModel) runBatch() tea.Cmd {
	n := m.batch
	if remaining := m.target - m.issued; n > remaining {
		n = remaining
	}
	if n <= 0 {
		return nil
	}
	m.issued += n
	m.inFlight = true

	return func() tea.Msg {
		results, err := analysis.Simulate(m.contestants, m.board, n, m.rng)
		return batchMsg{results: results, err: err}
	}
}

func (m *watchModel) finished() bool {
	return m.issued >= m.target
}

func (m *watchModel) done() int {
	if len(m.results) == 0 {
		return 0
	}
	return int(m.results[0].Trials)
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchMsg:
		m.inFlight = false
		if msg.err != nil {
			m.err = msg.err
			m.quitting = true
			return m, tea.Quit
		}
		m.results = analysis.MergeResults(m.results, msg.results)
		if m.finished() || m.paused {
			return m, nil
		}
		return m, m.runBatch()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 8
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.bar.Width = barWidth

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused && !m.inFlight && !m.finished() {
				return m, m.runBatch()
			}
		}
	}
	return m, nil
}

func (m *watchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("equity-watch"))
	b.WriteString("\n\n")

	if len(m.board) > 0 {
		b.WriteString(boardStyle.Render("board " + formatCards(m.board)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n")

	pct := float64(m.issued) / float64(m.target)
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	help := "space pause • q quit"
	if m.paused {
		help = pausedStyle.Render("paused") + "  " + helpStyle.Render("space resume • q quit")
	} else {
		help = helpStyle.Render(help)
	}
	b.WriteString(help)
	b.WriteString("\n")

	return b.String()
}

// renderTable lists each seat with its running estimate and the 95%
// confidence margin, which shrinks as trials accumulate.
func (m *watchModel) renderTable() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "hand\twin\ttie\tequity\t95% margin")
	for i, c := range m.contestants {
		var r analysis.Result
		if i < len(m.results) {
			r = m.results[i]
		}
		lower, upper := r.ConfidenceInterval()
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t%.2f%%\t±%.2f%%\n",
			handStyle.Render(c.String()),
			r.WinFraction()*100,
			r.TieFraction()*100,
			r.Equity()*100,
			(upper-lower)/2*100)
	}
	tw.Flush()
	return b.String()
}

func (m *watchModel) renderStatus() string {
	elapsed := time.Since(m.start)
	status := fmt.Sprintf("%d / %d trials", m.done(), m.target)
	if secs := elapsed.Seconds(); secs > 0.1 {
		status += fmt.Sprintf("  %.0f/s", float64(m.done())/secs)
	}
	status += fmt.Sprintf("  seed %d", m.seed)
	return helpStyle.Render(status)
}

// printSummary writes the final unstyled estimates, for after the alt
// screen closes.
func (m *watchModel) printSummary(w io.Writer) {
	if m.done() == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "hand\twin\ttie\tequity")
	for i, c := range m.contestants {
		if i >= len(m.results) {
			break
		}
		r := m.results[i]
		fmt.Fprintf(tw, "%s\t%.2f%%\t%.2f%%\t%.2f%%\n",
			c.String(),
			r.WinFraction()*100,
			r.TieFraction()*100,
			r.Equity()*100)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d trials, seed %d\n", m.done(), m.seed)
}

func formatCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
