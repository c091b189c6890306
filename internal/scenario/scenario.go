// Package scenario loads batches of equity simulations from HCL files,
// as run by the equity-sim command.
package scenario

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokerequity/analysis"
	"github.com/lox/pokerequity/poker"
)

// DefaultTrials is used when neither the scenario nor the defaults
// block sets a trial count.
const DefaultTrials = 10000

// File is a parsed scenario file.
type File struct {
	Defaults  *Defaults  `hcl:"defaults,block"`
	Scenarios []Scenario `hcl:"scenario,block"`
}

// Defaults applies to every scenario that does not set its own value.
type Defaults struct {
	Trials int   `hcl:"trials,optional"`
	Seed   int64 `hcl:"seed,optional"`
}

// Scenario is a single simulation: two or more hands or ranges, an
// optional partial board, and a trial count. A zero seed means the
// runner picks one.
type Scenario struct {
	Name   string   `hcl:"name,label"`
	Hands  []string `hcl:"hands"`
	Board  string   `hcl:"board,optional"`
	Trials int      `hcl:"trials,optional"`
	Seed   int64    `hcl:"seed,optional"`
}

// Load parses and validates a scenario file.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scenario file: %s", diags.Error())
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario file: %s", diags.Error())
	}

	file.applyDefaults()
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

func (f *File) applyDefaults() {
	trials := DefaultTrials
	var seed int64
	if f.Defaults != nil {
		if f.Defaults.Trials != 0 {
			trials = f.Defaults.Trials
		}
		seed = f.Defaults.Seed
	}
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Trials == 0 {
			s.Trials = trials
		}
		if s.Seed == 0 {
			s.Seed = seed
		}
	}
}

// Validate checks every scenario for a usable name, hands, board and
// trial count. Card conflicts between hands are left to the simulator,
// which reports them per trial deck.
func (f *File) Validate() error {
	if len(f.Scenarios) == 0 {
		return fmt.Errorf("no scenarios defined")
	}
	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			return fmt.Errorf("scenario %d has an empty name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return nil
}

func (s *Scenario) validate() error {
	if len(s.Hands) == 0 {
		return fmt.Errorf("at least one hand is required")
	}
	for _, h := range s.Hands {
		if _, err := analysis.ParseRange(h); err != nil {
			return fmt.Errorf("hand %q: %w", h, err)
		}
	}
	if s.Board != "" {
		cards, err := poker.ParseCards(s.Board)
		if err != nil {
			return fmt.Errorf("board: %w", err)
		}
		if len(cards) > 5 {
			return fmt.Errorf("board: %w: %d cards", poker.ErrInvalidHandSize, len(cards))
		}
	}
	if s.Trials < 1 {
		return fmt.Errorf("%w: %d", analysis.ErrInsufficientTrials, s.Trials)
	}
	return nil
}

// BoardCards parses the scenario board, which may be empty.
func (s *Scenario) BoardCards() ([]poker.Card, error) {
	if s.Board == "" {
		return nil, nil
	}
	return poker.ParseCards(s.Board)
}
