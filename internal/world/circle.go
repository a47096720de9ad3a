package world

import (
	"iter"
	"math"
)

// Circle yields the coordinates of a disc (ring == false: distance to center
// <= radius) or of its outline (ring == true: distance rounds to radius),
// restricted to the size×size domain. The sequence is pure and restartable.
func Circle(size int, radius float64, ring bool, center Coord) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		if radius < 0 {
			return
		}
		reach := int(math.Ceil(radius)) + 1
		minX, maxX := max(0, center.X-reach), min(size-1, center.X+reach)
		minY, maxY := max(0, center.Y-reach), min(size-1, center.Y+reach)

		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				c := Coord{X: x, Y: y}
				d := Euclidean(c, center)
				if (ring && math.Round(d) == radius) || (!ring && d <= radius) {
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// InCircle reports whether c lies within radius of center.
func InCircle(c, center Coord, radius float64) bool {
	return radius >= 0 && Euclidean(c, center) <= radius
}
