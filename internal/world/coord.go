// Package world provides the arena grid, terrain, and spatial helpers.
// Coordinates are integer (x, y) pairs; y grows downward.
package world

import (
	"cmp"
	"math"
)

// Coord is a grid position.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is an orthogonal step.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the four orthogonal directions.
var Directions = [4]Direction{Up, Down, Left, Right}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Step returns the coordinate one step in direction d.
func (c Coord) Step(d Direction) Coord {
	switch d {
	case Up:
		return Coord{X: c.X, Y: c.Y - 1}
	case Down:
		return Coord{X: c.X, Y: c.Y + 1}
	case Left:
		return Coord{X: c.X - 1, Y: c.Y}
	case Right:
		return Coord{X: c.X + 1, Y: c.Y}
	default:
		return c
	}
}

// Neighbors returns the four orthogonal neighbors in Directions order.
func (c Coord) Neighbors() [4]Coord {
	var out [4]Coord
	for i, d := range Directions {
		out[i] = c.Step(d)
	}
	return out
}

// Compare orders coordinates by x, then y.
func Compare(a, b Coord) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

// Manhattan returns |dx| + |dy|.
func Manhattan(a, b Coord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Euclidean returns the straight-line distance.
func Euclidean(a, b Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// IsOrthogonal reports whether b is exactly one orthogonal step from a.
func IsOrthogonal(a, b Coord) bool {
	return Manhattan(a, b) == 1
}

// HowAdjacent classifies proximity for sorting: 0 for the same tile, 1 for
// orthogonal neighbors, 2 for diagonal neighbors, Euclidean distance beyond.
// It is a sort key only; combat still requires orthogonal adjacency.
func HowAdjacent(a, b Coord) float64 {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	switch {
	case dx == 0 && dy == 0:
		return 0
	case dx+dy == 1:
		return 1
	case dx == 1 && dy == 1:
		return 2
	default:
		return math.Sqrt(float64(dx*dx + dy*dy))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
