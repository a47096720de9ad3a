package arena

import (
	"cmp"
	"slices"

	"github.com/talgya/reaping/internal/world"
)

// ProximityTargets returns the living opponents from other districts within
// the proximity radius of c, closest first and then weakest first.
func (ct *Contest) ProximityTargets(c *Combatant) []*Combatant {
	var targets []*Combatant
	for at := range world.Circle(ct.Map.Size, ct.rules.ProximityRadius, false, c.Pos) {
		other := ct.Occupant(at)
		if other == nil || other == c || !other.Alive() || other.District() == c.District() {
			continue
		}
		targets = append(targets, other)
	}
	slices.SortStableFunc(targets, func(a, b *Combatant) int {
		if d := cmp.Compare(world.HowAdjacent(c.Pos, a.Pos), world.HowAdjacent(c.Pos, b.Pos)); d != 0 {
			return d
		}
		return cmp.Compare(a.HP, b.HP)
	})
	return targets
}

// BestDirection returns the step from `from` that lands on an existing, free
// tile closest (Manhattan) to `to`. Directions are tried in random order so
// ties break fairly. ok is false when every neighbor is blocked.
func (ct *Contest) BestDirection(from, to world.Coord) (dir world.Direction, ok bool) {
	dirs := world.Directions
	ct.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

	best := -1
	for _, d := range dirs {
		next := from.Step(d)
		if !ct.Map.Open(next) {
			continue
		}
		if dist := world.Manhattan(next, to); best < 0 || dist < best {
			best, dir, ok = dist, d, true
		}
	}
	return dir, ok
}

// NearestLoot returns the loot tile closest to c by adjacency class.
func (ct *Contest) NearestLoot(c world.Coord) (world.Coord, bool) {
	loot := ct.Map.Find(world.TerrainLoot)
	if len(loot) == 0 {
		return world.Coord{}, false
	}
	return slices.MinFunc(loot, func(a, b world.Coord) int {
		return cmp.Compare(world.HowAdjacent(c, a), world.HowAdjacent(c, b))
	}), true
}
