// Arena generation: a circular world of random terrain with symmetric spawn
// clusters and a loot tile at the heart of each cluster.
package world

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainMode selects how biomes are laid down.
type TerrainMode string

const (
	TerrainUniform TerrainMode = "uniform" // Every tile drawn independently
	TerrainNoise   TerrainMode = "noise"   // Biomes clustered by simplex noise
)

// GenConfig holds arena generation parameters.
type GenConfig struct {
	Size             int         // Diameter of the world circle
	SpawnRingRadius  int         // Radius of each spawn ring
	SpawnGroups      int         // 1 (central) or 4 (diagonal) spawn clusters
	SpawnGroupOffset int         // Diagonal offset of each cluster from the center
	Districts        int         // Participating districts; two entry points each
	Terrain          TerrainMode // Biome layout
}

// DefaultGenConfig returns the standard 100-tile arena for twelve districts.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:             100,
		SpawnRingRadius:  10,
		SpawnGroups:      4,
		SpawnGroupOffset: 20,
		Districts:        12,
		Terrain:          TerrainUniform,
	}
}

// ExpectedSpawns is the number of spawn tiles a map for this config must hold.
func (cfg GenConfig) ExpectedSpawns() int {
	return 2 * cfg.Districts
}

// groupOffsets returns the center offset of each spawn cluster.
func (cfg GenConfig) groupOffsets() ([]Coord, error) {
	o := cfg.SpawnGroupOffset
	switch cfg.SpawnGroups {
	case 1:
		return []Coord{{X: 0, Y: 0}}, nil
	case 4:
		return []Coord{{X: -o, Y: o}, {X: o, Y: -o}, {X: -o, Y: -o}, {X: o, Y: o}}, nil
	default:
		return nil, fmt.Errorf("spawn groups must be 1 or 4, got %d", cfg.SpawnGroups)
	}
}

// Generate creates a complete arena map.
func Generate(cfg GenConfig, rng *rand.Rand) (*Map, error) {
	offsets, err := cfg.groupOffsets()
	if err != nil {
		return nil, err
	}

	m := NewMap(cfg.Size)
	center := m.Center()

	pick := uniformBiome(rng)
	if cfg.Terrain == TerrainNoise {
		pick = noiseBiome(opensimplex.NewNormalized(rng.Int63()))
	}
	for c := range Circle(cfg.Size, float64(cfg.Size)/2, false, center) {
		m.Set(c, pick(c))
	}

	var ring []Coord
	for c := range Circle(cfg.Size, float64(cfg.SpawnRingRadius), true, center) {
		ring = append(ring, Coord{X: c.X - center.X, Y: c.Y - center.Y})
	}

	entries := cfg.ExpectedSpawns()
	for g, off := range offsets {
		groupCenter := Coord{X: center.X + off.X, Y: center.Y + off.Y}
		want := entries / len(offsets)
		if g < entries%len(offsets) {
			want++
		}
		placeSpawnGroup(m, ring, groupCenter, want)
		m.Set(groupCenter, TerrainLoot)
	}

	if err := validateSpawns(m, cfg.Districts); err != nil {
		return nil, err
	}
	return m, nil
}

// placeSpawnGroup clears a ring around groupCenter and marks want entry
// points spread evenly around it.
func placeSpawnGroup(m *Map, ring []Coord, groupCenter Coord, want int) {
	tiles := make([]Coord, 0, len(ring))
	for _, off := range ring {
		c := Coord{X: groupCenter.X + off.X, Y: groupCenter.Y + off.Y}
		m.Set(c, TerrainPlain)
		tiles = append(tiles, c)
	}
	if want <= 0 || len(tiles) == 0 {
		return
	}

	angle := func(c Coord) float64 {
		return math.Atan2(float64(c.Y-groupCenter.Y), float64(c.X-groupCenter.X))
	}
	slices.SortStableFunc(tiles, func(a, b Coord) int {
		if c := cmp.Compare(angle(a), angle(b)); c != 0 {
			return c
		}
		return Compare(a, b)
	})

	// Asking for more entry points than the ring holds leaves the count short;
	// validation reports it.
	for i := 0; i < want && i < len(tiles); i++ {
		m.Set(tiles[i*len(tiles)/want], TerrainSpawn)
	}
}

// validateSpawns checks the two-entry-points-per-district invariant.
func validateSpawns(m *Map, districts int) error {
	got := m.Count(TerrainSpawn)
	if want := 2 * districts; got != want {
		return fmt.Errorf("map has %d spawn tiles, want %d for %d districts: %w", got, want, districts, ErrSpawnCount)
	}
	return nil
}

func uniformBiome(rng *rand.Rand) func(Coord) Terrain {
	return func(Coord) Terrain {
		return Biomes[rng.Intn(len(Biomes))]
	}
}

func noiseBiome(noise opensimplex.Noise) func(Coord) Terrain {
	return func(c Coord) Terrain {
		v := octaveNoise(noise, float64(c.X), float64(c.Y), 3, 0.06, 0.5)
		i := int(v * float64(len(Biomes)))
		if i < 0 {
			i = 0
		}
		if i >= len(Biomes) {
			i = len(Biomes) - 1
		}
		return Biomes[i]
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
