// Package entropy hands out the seeded random streams the simulation draws from.
// Every subsystem gets its own stream so adding draws in one place does not
// shift the sequence seen by another. Nothing here touches the global source.
package entropy

import (
	"math/rand"
)

// Stream offsets, added to the base seed.
const (
	offsetPopulation = 100
	offsetArena      = 200
	offsetNames      = 300
	offsetProfiles   = 400
	offsetMeta       = 500
)

// Streams groups the per-subsystem random sources for one simulation run.
type Streams struct {
	Seed int64

	Population *rand.Rand // Founders, marriage, births, mortality, selection
	Arena      *rand.Rand // World generation, spawn shuffle, AI decisions
	Names      *rand.Rand // Given names for founders and newborns
	Profiles   *rand.Rand // Behavior profile draws
	Meta       *rand.Rand // Run identifiers
}

// NewStreams derives all streams from a single seed. A zero seed is replaced
// with 1 so that "unset" still replays deterministically.
func NewStreams(seed int64) *Streams {
	if seed == 0 {
		seed = 1
	}
	return &Streams{
		Seed:       seed,
		Population: New(seed + offsetPopulation),
		Arena:      New(seed + offsetArena),
		Names:      New(seed + offsetNames),
		Profiles:   New(seed + offsetProfiles),
		Meta:       New(seed + offsetMeta),
	}
}

// New returns a seeded generator.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Chance reports whether a uniform draw falls under p.
func Chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
