package analysis

import (
	"errors"
	"testing"

	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/poker"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		wantSize   int
		wantErr    bool
	}{
		{
			name:       "pocket aces",
			descriptor: "AA",
			wantSize:   6, // 6 combinations
		},
		{
			name:       "ace king suited",
			descriptor: "AKs",
			wantSize:   4, // 4 suited combinations
		},
		{
			name:       "ace ten offsuit",
			descriptor: "ATo",
			wantSize:   12, // 12 offsuit combinations
		},
		{
			name:       "ace king any",
			descriptor: "AK",
			wantSize:   16, // 4 suited + 12 offsuit
		},
		{
			name:       "concrete combo",
			descriptor: "5d4s",
			wantSize:   1,
		},
		{
			name:       "concrete combo lowercase",
			descriptor: "askd",
			wantSize:   1,
		},
		{
			name:       "multiple classes",
			descriptor: "AA,KK,AKs",
			wantSize:   16, // 6 + 6 + 4
		},
		{
			name:       "whitespace separated",
			descriptor: "55 AT A8s",
			wantSize:   26, // 6 + 16 + 4
		},
		{
			name:       "pocket pairs plus",
			descriptor: "TT+",
			wantSize:   30, // TT,JJ,QQ,KK,AA = 5 * 6
		},
		{
			name:       "suited plus",
			descriptor: "ATs+",
			wantSize:   16, // ATs,AJs,AQs,AKs = 4 * 4
		},
		{
			name:       "offsuit plus",
			descriptor: "KJo+",
			wantSize:   24, // KJo,KQo = 2 * 12
		},
		{
			name:       "dash range pairs",
			descriptor: "22-66",
			wantSize:   30, // 22,33,44,55,66 = 5 * 6
		},
		{
			name:       "dash range suited",
			descriptor: "A5s-A2s",
			wantSize:   16, // A5s,A4s,A3s,A2s = 4 * 4
		},
		{
			name:       "dash range offsuit",
			descriptor: "A5o-A2o",
			wantSize:   48, // 4 * 12
		},
		{
			name:       "rank shaped term is a class not a percentile",
			descriptor: "22",
			wantSize:   6, // pocket twos
		},
		{
			name:       "duplicate combos coalesce",
			descriptor: "AKs AKs AK",
			wantSize:   16,
		},
		{
			name:       "empty descriptor",
			descriptor: "",
			wantErr:    true,
		},
		{
			name:       "unknown ranks",
			descriptor: "XX",
			wantErr:    true,
		},
		{
			name:       "bad modifier",
			descriptor: "AKx",
			wantErr:    true,
		},
		{
			name:       "pair with suited modifier",
			descriptor: "AAs",
			wantErr:    true,
		},
		{
			name:       "combo repeats a card",
			descriptor: "5d5d",
			wantErr:    true,
		},
		{
			name:       "mixed shapes in dash range",
			descriptor: "22-A5s",
			wantErr:    true,
		},
		{
			name:       "suffix mismatch in dash range",
			descriptor: "A5s-A2o",
			wantErr:    true,
		},
		{
			name:       "percentile zero",
			descriptor: "0",
			wantErr:    true,
		},
		{
			name:       "percentile negative",
			descriptor: "-5",
			wantErr:    true,
		},
		{
			name:       "percentile over hundred",
			descriptor: "101",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.descriptor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRange(%q) error = %v, wantErr %v", tt.descriptor, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("ParseRange(%q) error = %v, want ErrInvalidRange", tt.descriptor, err)
				}
				return
			}
			if r.Size() != tt.wantSize {
				t.Errorf("ParseRange(%q) size = %d, want %d", tt.descriptor, r.Size(), tt.wantSize)
			}
		})
	}
}

func TestParseRangePercentile(t *testing.T) {
	ten, err := ParseRange("10")
	if err != nil {
		t.Fatal(err)
	}
	thirty, err := ParseRange("30")
	if err != nil {
		t.Fatal(err)
	}

	if ten.Size() == 0 {
		t.Fatal("top 10% expanded to zero combos")
	}
	if ten.Size() >= thirty.Size() {
		t.Errorf("top 10%% has %d combos, top 30%% has %d, want strictly fewer", ten.Size(), thirty.Size())
	}

	// Every combo in the tighter range must appear in the wider one.
	for _, combo := range ten.Combos() {
		if !thirty.ContainsHand(combo) {
			t.Errorf("combo %v in top 10%% missing from top 30%%", combo)
		}
	}

	// The strongest class is always included, the weakest never is.
	aces := poker.HoleClass("AA").Combos()
	if !ten.ContainsHand(aces[0]) {
		t.Error("top 10% should contain AA")
	}
	worst := poker.HoleClass("72o").Combos()
	if thirty.ContainsHand(worst[0]) {
		t.Error("top 30% should not contain 72o")
	}

	// Fractional percentiles parse too.
	narrow, err := ParseRange("0.5")
	if err != nil {
		t.Fatal(err)
	}
	if narrow.Size() != 6 {
		t.Errorf("top 0.5%% = %d combos, want 6 (AA only)", narrow.Size())
	}
}

func TestRangeContainsCards(t *testing.T) {
	r, err := ParseRange("AA,KK,AKs")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		c1, c2 string
		want   bool
	}{
		{"Ah", "As", true},  // AA
		{"Kh", "Kd", true},  // KK
		{"Ah", "Kh", true},  // AKs
		{"Ah", "Kd", false}, // AKo not in range
		{"Qh", "Qd", false}, // QQ not in range
	}

	for _, tt := range tests {
		c1, err := poker.ParseCard(tt.c1)
		if err != nil {
			t.Fatal(err)
		}
		c2, err := poker.ParseCard(tt.c2)
		if err != nil {
			t.Fatal(err)
		}
		if got := r.ContainsCards(c1, c2); got != tt.want {
			t.Errorf("ContainsCards(%s,%s) = %v, want %v", tt.c1, tt.c2, got, tt.want)
		}
	}
}

func TestRangeWithout(t *testing.T) {
	r, err := ParseRange("AA")
	if err != nil {
		t.Fatal(err)
	}

	ace, err := poker.ParseCard("As")
	if err != nil {
		t.Fatal(err)
	}
	dead := poker.NewHand(ace)

	// Removing one ace leaves the pairs over the other three.
	if got := r.Without(dead).Size(); got != 3 {
		t.Errorf("AA without As = %d combos, want 3", got)
	}

	// Removing three aces empties the class without error.
	threeAces, err := poker.ParseHand("AsAhAd")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Without(threeAces).Size(); got != 0 {
		t.Errorf("AA without three aces = %d combos, want 0", got)
	}

	// The original range is untouched.
	if r.Size() != 6 {
		t.Errorf("Without mutated the receiver: size = %d, want 6", r.Size())
	}
}

func TestRangeSample(t *testing.T) {
	rng := randutil.New(42)

	r, err := ParseRange("AA")
	if err != nil {
		t.Fatal(err)
	}

	// With As and Ah dead the only playable combo is AdAc.
	used, err := poker.ParseHand("AsAh")
	if err != nil {
		t.Fatal(err)
	}
	want, err := poker.ParseHand("AdAc")
	if err != nil {
		t.Fatal(err)
	}
	for range 20 {
		combo, ok := r.Sample(rng, used)
		if !ok {
			t.Fatal("Sample returned no combo with one still playable")
		}
		if combo != want {
			t.Fatalf("Sample returned %v, want AdAc", combo)
		}
	}

	// Three dead aces leave nothing to sample.
	threeAces, err := poker.ParseHand("AsAhAd")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Sample(rng, threeAces); ok {
		t.Error("Sample returned a combo from an exhausted range")
	}

	// Unconstrained sampling covers the whole class eventually.
	seen := make(map[poker.Hand]bool)
	for range 500 {
		combo, ok := r.Sample(rng, 0)
		if !ok {
			t.Fatal("Sample failed with no dead cards")
		}
		seen[combo] = true
	}
	if len(seen) != 6 {
		t.Errorf("sampled %d distinct AA combos over 500 draws, want all 6", len(seen))
	}
}

func TestRangeEligibleCount(t *testing.T) {
	r, err := ParseRange("AKs")
	if err != nil {
		t.Fatal(err)
	}

	if got := r.EligibleCount(0); got != 4 {
		t.Errorf("EligibleCount(none) = %d, want 4", got)
	}

	dead, err := poker.ParseHand("AsKh")
	if err != nil {
		t.Fatal(err)
	}
	// AsKs is blocked by As, AhKh by Kh.
	if got := r.EligibleCount(dead); got != 2 {
		t.Errorf("EligibleCount(AsKh) = %d, want 2", got)
	}
}
