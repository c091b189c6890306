package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/poker"
)

func TestParseContestants(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		hasError bool
	}{
		{
			name:  "concrete hands",
			input: []string{"AcKh", "KdQs"},
		},
		{
			name:  "class descriptor",
			input: []string{"AA", "KK"},
		},
		{
			name:  "plus and percentile",
			input: []string{"TT+", "25"},
		},
		{
			name:  "multi class range",
			input: []string{"55 AT A8s", "AsKs"},
		},
		{
			name:     "three card hand",
			input:    []string{"AcKhQd"},
			hasError: true,
		},
		{
			name:     "lone card",
			input:    []string{"Ac"},
			hasError: true,
		},
		{
			name:     "unknown rank",
			input:    []string{"XxYy"},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contestants, err := parseContestants(tt.input)
			if tt.hasError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(contestants) != len(tt.input) {
				t.Errorf("got %d contestants, want %d", len(contestants), len(tt.input))
			}
		})
	}
}

func TestFormatCards(t *testing.T) {
	cards, err := poker.ParseCards("AsKhQd")
	if err != nil {
		t.Fatal(err)
	}
	if got := formatCards(cards); got != "As Kh Qd" {
		t.Errorf("formatCards = %q, want %q", got, "As Kh Qd")
	}
}

func TestDisplayResults(t *testing.T) {
	contestants, err := parseContestants([]string{"AsAh", "KsKh"})
	if err != nil {
		t.Fatal(err)
	}
	board, err := poker.ParseCards("2c7h9d")
	if err != nil {
		t.Fatal(err)
	}
	results := []analysis.Result{
		{Wins: 820, Ties: 4, Trials: 1000},
		{Wins: 176, Ties: 4, Trials: 1000},
	}

	var buf bytes.Buffer
	displayResults(&buf, newStyles(true), contestants, results, board, false)

	out := buf.String()
	for _, want := range []string{"board", "2c 7h 9d", "hand", "win", "tie", "equity", "AsAh", "KsKh", "82.0%", "17.6%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayPossibilities(t *testing.T) {
	contestants, err := parseContestants([]string{"AsAh", "KsKh"})
	if err != nil {
		t.Fatal(err)
	}

	hero := analysis.Result{Wins: 800, Trials: 1000}
	hero.Categories[poker.Pair] = 750
	hero.Categories[poker.ThreeOfAKind] = 250
	villain := analysis.Result{Wins: 200, Trials: 1000}
	villain.Categories[poker.Pair] = 1000

	var buf bytes.Buffer
	displayPossibilities(&buf, newStyles(true), contestants, []analysis.Result{hero, villain})

	out := buf.String()
	for _, want := range []string{"three_of_a_kind", "pair", "75.0%", "25.0%", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "straight_flush") {
		t.Errorf("categories nobody made should be omitted:\n%s", out)
	}

	// The villain never made trips, shown as a dot in the last column.
	var tripsLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "three_of_a_kind") {
			tripsLine = strings.TrimRight(line, " ")
		}
	}
	if !strings.HasSuffix(tripsLine, " .") {
		t.Errorf("expected dot for empty cell, got line %q", tripsLine)
	}
}
