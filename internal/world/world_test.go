package world

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestHowAdjacent(t *testing.T) {
	tests := []struct {
		a, b Coord
		want float64
	}{
		{Coord{5, 5}, Coord{5, 5}, 0},
		{Coord{5, 5}, Coord{5, 6}, 1},
		{Coord{5, 5}, Coord{4, 5}, 1},
		{Coord{5, 5}, Coord{6, 6}, 2},
		{Coord{5, 5}, Coord{4, 4}, 2},
		{Coord{0, 0}, Coord{3, 4}, 5},
		{Coord{0, 0}, Coord{0, 2}, 2},
	}
	for _, tc := range tests {
		if got := HowAdjacent(tc.a, tc.b); got != tc.want {
			t.Errorf("HowAdjacent(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestStepAndNeighbors(t *testing.T) {
	c := Coord{X: 3, Y: 3}
	want := [4]Coord{{3, 2}, {3, 4}, {2, 3}, {4, 3}}
	if got := c.Neighbors(); got != want {
		t.Fatalf("Neighbors = %v, want %v", got, want)
	}
	for _, n := range c.Neighbors() {
		if !IsOrthogonal(c, n) {
			t.Fatalf("%v not orthogonal to %v", n, c)
		}
	}
}

func TestCircleDisc(t *testing.T) {
	center := Coord{X: 10, Y: 10}
	count := 0
	for c := range Circle(20, 3, false, center) {
		if Euclidean(c, center) > 3 {
			t.Fatalf("%v outside radius", c)
		}
		count++
	}
	// Lattice points within distance 3: 29.
	if count != 29 {
		t.Fatalf("disc of radius 3 has %d points, want 29", count)
	}
}

func TestCircleRing(t *testing.T) {
	center := Coord{X: 50, Y: 50}
	var ring []Coord
	for c := range Circle(100, 10, true, center) {
		if math.Round(Euclidean(c, center)) != 10 {
			t.Fatalf("%v not on ring", c)
		}
		ring = append(ring, c)
	}
	if len(ring) == 0 {
		t.Fatal("empty ring")
	}

	// Restartable: a second pass yields the same sequence.
	var again []Coord
	for c := range Circle(100, 10, true, center) {
		again = append(again, c)
	}
	if !slices.Equal(ring, again) {
		t.Fatal("second enumeration differs")
	}
}

func TestCircleClipsToDomain(t *testing.T) {
	for c := range Circle(10, 5, false, Coord{0, 0}) {
		if c.X < 0 || c.Y < 0 || c.X >= 10 || c.Y >= 10 {
			t.Fatalf("%v outside domain", c)
		}
	}
	n := 0
	for range Circle(10, -1, false, Coord{5, 5}) {
		n++
	}
	if n != 0 {
		t.Fatalf("negative radius yielded %d points", n)
	}
}

func TestGenerateSpawnCount(t *testing.T) {
	for _, groups := range []int{1, 4} {
		cfg := DefaultGenConfig()
		cfg.SpawnGroups = groups
		m, err := Generate(cfg, testRng())
		if err != nil {
			t.Fatalf("groups=%d: %v", groups, err)
		}
		if got := m.Count(TerrainSpawn); got != 2*cfg.Districts {
			t.Fatalf("groups=%d: %d spawn tiles, want %d", groups, got, 2*cfg.Districts)
		}
		if got := m.Count(TerrainLoot); got != groups {
			t.Fatalf("groups=%d: %d loot tiles, want %d", groups, got, groups)
		}
	}
}

func TestGenerateSpawnRings(t *testing.T) {
	cfg := DefaultGenConfig()
	m, err := Generate(cfg, testRng())
	if err != nil {
		t.Fatal(err)
	}

	counts := m.TerrainCounts()
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != m.TileCount() {
		t.Fatalf("terrain counts sum to %d, map has %d tiles", total, m.TileCount())
	}
	if counts[TerrainSpawn] != 2*cfg.Districts || counts[TerrainLoot] != cfg.SpawnGroups {
		t.Fatalf("spawn=%d loot=%d", counts[TerrainSpawn], counts[TerrainLoot])
	}

	// Every ring tile is cleared; only the entry points on it are spawn.
	loot := m.Find(TerrainLoot)
	for _, center := range loot {
		for c := range Circle(cfg.Size, float64(cfg.SpawnRingRadius), true, center) {
			if got := m.Get(c).Terrain; got != TerrainPlain && got != TerrainSpawn {
				t.Fatalf("ring tile %v around %v is %s", c, center, TerrainName(got))
			}
		}
	}
	for _, s := range m.Find(TerrainSpawn) {
		onRing := false
		for _, center := range loot {
			if math.Round(Euclidean(s, center)) == float64(cfg.SpawnRingRadius) {
				onRing = true
			}
		}
		if !onRing {
			t.Fatalf("spawn tile %v is on no group ring", s)
		}
	}
}

func TestGenerateIsCircular(t *testing.T) {
	cfg := DefaultGenConfig()
	m, err := Generate(cfg, testRng())
	if err != nil {
		t.Fatal(err)
	}
	center := m.Center()
	for _, c := range m.Coords() {
		if Euclidean(c, center) > float64(cfg.Size)/2 {
			t.Fatalf("tile %v outside the world circle", c)
		}
	}
	if m.Get(Coord{0, 0}) != nil {
		t.Fatal("corner tile exists in a circular world")
	}
	if m.Get(center) == nil {
		t.Fatal("center tile missing")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(DefaultGenConfig(), rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(DefaultGenConfig(), rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range a.Coords() {
		if a.Get(c).Terrain != b.Get(c).Terrain {
			t.Fatalf("terrain differs at %v", c)
		}
	}
}

func TestGenerateNoiseTerrain(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Terrain = TerrainNoise
	m, err := Generate(cfg, testRng())
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Count(TerrainSpawn); got != 24 {
		t.Fatalf("%d spawn tiles, want 24", got)
	}
	for _, c := range m.Coords() {
		tile := m.Get(c)
		if tile.Terrain > TerrainLake {
			t.Fatalf("unknown terrain %d at %v", tile.Terrain, c)
		}
	}
}

func TestGenerateTooManyDistricts(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.SpawnRingRadius = 1 // 8 ring tiles per group
	cfg.Districts = 40      // 80 entry points needed
	if _, err := Generate(cfg, testRng()); !errors.Is(err, ErrSpawnCount) {
		t.Fatalf("error = %v, want ErrSpawnCount", err)
	}
}

func TestGenerateRejectsGroupCount(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.SpawnGroups = 3
	if _, err := Generate(cfg, testRng()); err == nil {
		t.Fatal("expected error for 3 spawn groups")
	}
}

const twoDistrictLayout = `
S . . . S
. , t T .
. . $ . .
. ^ ~ , .
S . . . S
`

func TestParseLayout(t *testing.T) {
	m, err := ParseLayout(twoDistrictLayout, 2)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	if m.TileCount() != 25 {
		t.Fatalf("tile count %d, want 25", m.TileCount())
	}
	if m.Size != 5 {
		t.Fatalf("size %d, want 5", m.Size)
	}
	checks := map[Coord]Terrain{
		{0, 0}: TerrainSpawn,
		{4, 4}: TerrainSpawn,
		{2, 2}: TerrainLoot,
		{1, 1}: TerrainGrass,
		{2, 1}: TerrainTree,
		{3, 1}: TerrainForest,
		{1, 3}: TerrainMountain,
		{2, 3}: TerrainLake,
	}
	for c, want := range checks {
		if got := m.Get(c).Terrain; got != want {
			t.Errorf("terrain at %v = %s, want %s", c, TerrainName(got), TerrainName(want))
		}
	}
}

func TestParseLayoutCompactRows(t *testing.T) {
	m, err := ParseLayout("S..S\n....\nS..S", 2)
	if err != nil {
		t.Fatal(err)
	}
	if m.TileCount() != 12 {
		t.Fatalf("tile count %d, want 12", m.TileCount())
	}
}

func TestParseLayoutFillsGaps(t *testing.T) {
	m, err := ParseLayout("S S S S\n.\n. . .", 2)
	if err != nil {
		t.Fatal(err)
	}
	if m.Get(Coord{3, 2}) == nil || m.Get(Coord{3, 2}).Terrain != TerrainPlain {
		t.Fatal("gap in bounding box not filled with plain")
	}
}

func TestParseLayoutSpawnMismatch(t *testing.T) {
	if _, err := ParseLayout(twoDistrictLayout, 3); !errors.Is(err, ErrSpawnCount) {
		t.Fatalf("error = %v, want ErrSpawnCount", err)
	}
	if _, err := ParseLayout("S . .\n. . S\n", 2); !errors.Is(err, ErrSpawnCount) {
		t.Fatalf("error = %v, want ErrSpawnCount", err)
	}
}

func TestMapOccupancy(t *testing.T) {
	m, err := ParseLayout(twoDistrictLayout, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Place(Coord{1, 1}, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.Place(Coord{1, 1}, 2); !errors.Is(err, ErrOccupied) {
		t.Fatalf("double placement error = %v, want ErrOccupied", err)
	}
	if err := m.Place(Coord{9, 9}, 2); !errors.Is(err, ErrNoTile) {
		t.Fatalf("off-map placement error = %v, want ErrNoTile", err)
	}
	if err := m.Move(Coord{1, 1}, Coord{2, 2}); !errors.Is(err, ErrNotAdjacent) {
		t.Fatalf("diagonal move error = %v, want ErrNotAdjacent", err)
	}
	if err := m.Place(Coord{1, 2}, 2); err != nil {
		t.Fatal(err)
	}
	if err := m.Move(Coord{1, 1}, Coord{1, 2}); !errors.Is(err, ErrOccupied) {
		t.Fatalf("move onto occupied error = %v, want ErrOccupied", err)
	}
	if err := m.Move(Coord{1, 1}, Coord{2, 1}); err != nil {
		t.Fatalf("legal move: %v", err)
	}
	if m.Get(Coord{1, 1}).Occupied() || m.Get(Coord{2, 1}).Occupant != 1 {
		t.Fatal("occupant not transferred")
	}
}

func TestMapCoordsSorted(t *testing.T) {
	m := NewMap(10)
	for _, c := range []Coord{{5, 5}, {1, 9}, {1, 2}, {7, 0}, {0, 0}} {
		m.Set(c, TerrainPlain)
	}
	if !slices.IsSortedFunc(m.Coords(), Compare) {
		t.Fatalf("coords not sorted: %v", m.Coords())
	}
	if len(m.Coords()) != 5 {
		t.Fatalf("coords %v", m.Coords())
	}
}
