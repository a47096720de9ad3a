package world

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOccupied is returned when placing onto a tile that already holds someone.
	ErrOccupied = errors.New("tile already occupied")
	// ErrNoTile is returned for coordinates outside the map.
	ErrNoTile = errors.New("no such tile")
	// ErrNotAdjacent is returned for a move that is not one orthogonal step.
	ErrNotAdjacent = errors.New("tiles not orthogonally adjacent")
	// ErrSpawnCount is returned when a map has the wrong number of spawn tiles.
	ErrSpawnCount = errors.New("wrong spawn tile count")
)

// Terrain is the biome of a tile.
type Terrain uint8

const (
	TerrainPlain Terrain = iota
	TerrainGrass
	TerrainTree
	TerrainForest
	TerrainMountain
	TerrainLoot
	TerrainSpawn // Plays like plain
	TerrainLake
)

// Biomes is the set random terrain is drawn from.
var Biomes = []Terrain{
	TerrainPlain,
	TerrainGrass,
	TerrainTree,
	TerrainForest,
	TerrainMountain,
	TerrainLake,
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainPlain:
		return "Plain"
	case TerrainGrass:
		return "Grass"
	case TerrainTree:
		return "Tree"
	case TerrainForest:
		return "Forest"
	case TerrainMountain:
		return "Mountain"
	case TerrainLoot:
		return "Loot"
	case TerrainSpawn:
		return "Spawn"
	case TerrainLake:
		return "Lake"
	default:
		return "Unknown"
	}
}

// OccupantID is a handle to whoever stands on a tile. Zero means empty.
type OccupantID int

// Tile is one cell of the arena.
type Tile struct {
	Terrain  Terrain    `json:"terrain"`
	Occupant OccupantID `json:"occupant,omitempty"`

	// RedZone is the turn from which standing here is lethal; 0 = safe.
	RedZone int `json:"red_zone,omitempty"`
}

// Occupied reports whether someone stands on the tile.
func (t *Tile) Occupied() bool {
	return t.Occupant != 0
}

// Map holds the arena grid. Tiles are keyed by coordinate; a sorted index
// gives every scan a deterministic order.
type Map struct {
	Size  int `json:"size"` // Diameter of the playable circle
	tiles map[Coord]*Tile
	order []Coord
}

// NewMap creates an empty map of the given diameter.
func NewMap(size int) *Map {
	return &Map{
		Size:  size,
		tiles: make(map[Coord]*Tile),
	}
}

// Get returns the tile at c, or nil if c is not part of the world.
func (m *Map) Get(c Coord) *Tile {
	return m.tiles[c]
}

// Set creates or retypes the tile at c. Occupancy and red zone are kept.
func (m *Map) Set(c Coord, t Terrain) {
	if tile, ok := m.tiles[c]; ok {
		tile.Terrain = t
		return
	}
	m.tiles[c] = &Tile{Terrain: t}
	if n := len(m.order); n > 0 && Compare(m.order[n-1], c) > 0 {
		i, _ := slices.BinarySearchFunc(m.order, c, Compare)
		m.order = slices.Insert(m.order, i, c)
		return
	}
	m.order = append(m.order, c)
}

// Coords returns every in-world coordinate in (x, y) order. The slice is
// shared; callers must not modify it.
func (m *Map) Coords() []Coord {
	return m.order
}

// TileCount returns the number of tiles in the world.
func (m *Map) TileCount() int {
	return len(m.tiles)
}

// Center returns the middle of the map.
func (m *Map) Center() Coord {
	return Coord{X: m.Size / 2, Y: m.Size / 2}
}

// Open reports whether c exists and is unoccupied.
func (m *Map) Open(c Coord) bool {
	t := m.tiles[c]
	return t != nil && !t.Occupied()
}

// Find returns the coordinates with the given terrain in (x, y) order.
func (m *Map) Find(t Terrain) []Coord {
	var out []Coord
	for _, c := range m.order {
		if m.tiles[c].Terrain == t {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many tiles have the given terrain.
func (m *Map) Count(t Terrain) int {
	n := 0
	for _, tile := range m.tiles {
		if tile.Terrain == t {
			n++
		}
	}
	return n
}

// TerrainCounts returns a summary of terrain type distribution.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, tile := range m.tiles {
		counts[tile.Terrain]++
	}
	return counts
}

// Place puts occupant on c. The tile must exist and be empty.
func (m *Map) Place(c Coord, occupant OccupantID) error {
	t := m.tiles[c]
	if t == nil {
		return fmt.Errorf("place %d at %v: %w", occupant, c, ErrNoTile)
	}
	if t.Occupied() {
		return fmt.Errorf("place %d at %v (holds %d): %w", occupant, c, t.Occupant, ErrOccupied)
	}
	t.Occupant = occupant
	return nil
}

// Vacate clears the occupant of c.
func (m *Map) Vacate(c Coord) {
	if t := m.tiles[c]; t != nil {
		t.Occupant = 0
	}
}

// Move relocates the occupant of from to the orthogonally adjacent, empty to.
func (m *Map) Move(from, to Coord) error {
	src := m.tiles[from]
	if src == nil || !src.Occupied() {
		return fmt.Errorf("move %v -> %v: nobody at source: %w", from, to, ErrNoTile)
	}
	if !IsOrthogonal(from, to) {
		return fmt.Errorf("move %v -> %v: %w", from, to, ErrNotAdjacent)
	}
	if err := m.Place(to, src.Occupant); err != nil {
		return fmt.Errorf("move %v -> %v: %w", from, to, err)
	}
	src.Occupant = 0
	return nil
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(size=%d, tiles=%d)", m.Size, m.TileCount())
}
