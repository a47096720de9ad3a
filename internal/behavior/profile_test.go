package behavior

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestGenerateWithoutSeedKeepsBudget(t *testing.T) {
	rng := testRng()
	for i := 0; i < 5000; i++ {
		p := Generate(rng, nil, 6)
		if !p.Valid() {
			t.Fatalf("draw %d: invalid profile %v (sum %d)", i, p, p.Sum())
		}
	}
}

func TestGenerateWithSeedKeepsBudget(t *testing.T) {
	rng := testRng()
	seeds := []Profile{
		{17, 1, 1, 1},
		{1, 1, 1, 17},
		{5, 5, 5, 5},
		{16, 16, 16, 16}, // over budget on purpose
		{1, 1, 1, 1},
		{0, 0, 0, 0},
	}
	for _, seed := range seeds {
		for diff := 0; diff <= 50; diff += 5 {
			for i := 0; i < 200; i++ {
				s := seed
				p := Generate(rng, &s, diff)
				if !p.Valid() {
					t.Fatalf("seed %v diff %d: invalid profile %v (sum %d)", seed, diff, p, p.Sum())
				}
			}
		}
	}
}

func TestGenerateClampsOutOfRangeSeed(t *testing.T) {
	rng := testRng()
	tests := []struct {
		seed Profile
		diff int
	}{
		{Profile{0, 0, 0, 0}, 0},
		{Profile{20, 0, 0, 0}, 0},
		{Profile{-3, 40, 0, 1}, 2},
		{Profile{17, 1, 1, 1}, 0},
	}
	for _, tt := range tests {
		for i := 0; i < 100; i++ {
			s := tt.seed
			p := Generate(rng, &s, tt.diff)
			if !p.Valid() {
				t.Fatalf("seed %v diff %d: invalid profile %v", tt.seed, tt.diff, p)
			}
		}
	}
	if lo, hi := statRange(&Profile{0, 0, 0, 0}, Fight, 0); lo != Min || hi != Min {
		t.Fatalf("zero seed range = [%d, %d], want [%d, %d]", lo, hi, Min, Min)
	}
	if lo, hi := statRange(&Profile{30, 0, 0, 0}, Fight, 3); lo != Max-3 || hi != Max {
		t.Fatalf("oversized seed range = [%d, %d], want [%d, %d]", lo, hi, Max-3, Max)
	}
}

func TestGenerateZeroDifferenceReproducesValidSeed(t *testing.T) {
	rng := testRng()
	seed := Profile{8, 4, 3, 5}
	for i := 0; i < 100; i++ {
		if got := Generate(rng, &seed, 0); got != seed {
			t.Fatalf("Generate with zero difference = %v, want %v", got, seed)
		}
	}
}

func TestGenerateStaysNearSeed(t *testing.T) {
	rng := testRng()
	seed := Profile{10, 4, 2, 4}
	for i := 0; i < 500; i++ {
		p := Generate(rng, &seed, 1)
		// Each draw is within ±1; the correction can move one category by at
		// most the total drift of the others (3).
		for _, c := range Categories {
			diff := p[c] - seed[c]
			if diff < -4 || diff > 4 {
				t.Fatalf("category %s drifted %d from seed: %v", c, diff, p)
			}
		}
	}
}

func TestAllowedDifference(t *testing.T) {
	tests := []struct {
		year, total, want int
	}{
		{1, 50, 49},
		{50, 50, 0},
		{60, 50, 0},
		{10, 12, 2},
	}
	for _, tc := range tests {
		if got := AllowedDifference(tc.year, tc.total); got != tc.want {
			t.Errorf("AllowedDifference(%d, %d) = %d, want %d", tc.year, tc.total, got, tc.want)
		}
	}
}

func TestProfileJSON(t *testing.T) {
	p := Profile{17, 1, 1, 1}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"fight":17,"hide":1,"loot":1,"move":1}` {
		t.Fatalf("unexpected encoding %s", data)
	}
	var back Profile
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != p {
		t.Fatalf("decoded %v, want %v", back, p)
	}
}
