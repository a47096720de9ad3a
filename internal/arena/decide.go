package arena

import (
	"fmt"

	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/world"
)

// Action is what a combatant does with its turn.
type Action uint8

const (
	ActionPass Action = iota // No legal move
	ActionMove
	ActionFight
	ActionHide
	ActionLoot
)

func (a Action) String() string {
	switch a {
	case ActionPass:
		return "pass"
	case ActionMove:
		return "move"
	case ActionFight:
		return "fight"
	case ActionHide:
		return "hide"
	case ActionLoot:
		return "loot"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Decision is a chosen action and the tile it applies to: the destination of
// a move, the opponent's tile for a fight, the loot tile for a loot.
type Decision struct {
	Action Action
	Target world.Coord
}

// gateOrder is the priority in which preference gates are rolled.
var gateOrder = [behavior.NumCategories]behavior.Category{
	behavior.Fight,
	behavior.Move,
	behavior.Hide,
	behavior.Loot,
}

// decide picks c's action for this turn.
func (ct *Contest) decide(c *Combatant) Decision {
	if t := ct.Map.Get(c.Pos); t.RedZone != 0 {
		if dir, ok := ct.BestDirection(c.Pos, ct.Map.Center()); ok {
			return Decision{Action: ActionMove, Target: c.Pos.Step(dir)}
		}
		return ct.randomMove(c)
	}

	for _, cat := range gateOrder {
		if !ct.profileGate(c.Profile, cat) {
			continue
		}
		var d Decision
		switch cat {
		case behavior.Fight:
			d = ct.fightIntent(c)
		case behavior.Move:
			d = ct.randomMove(c)
		case behavior.Hide:
			d = Decision{Action: ActionHide}
		case behavior.Loot:
			d = ct.lootIntent(c)
		}
		return ct.recheck(c, d)
	}
	return ct.randomMove(c)
}

// fightIntent attacks the best adjacent target, or steps toward the best
// target that can be approached.
func (ct *Contest) fightIntent(c *Combatant) Decision {
	for _, target := range ct.ProximityTargets(c) {
		if world.IsOrthogonal(c.Pos, target.Pos) {
			return Decision{Action: ActionFight, Target: target.Pos}
		}
		if dir, ok := ct.BestDirection(c.Pos, target.Pos); ok {
			return Decision{Action: ActionMove, Target: c.Pos.Step(dir)}
		}
	}
	return ct.randomMove(c)
}

// lootIntent loots the nearest loot tile if it is in reach, otherwise steps
// toward it.
func (ct *Contest) lootIntent(c *Combatant) Decision {
	loot, ok := ct.NearestLoot(c.Pos)
	if !ok {
		return ct.randomMove(c)
	}
	if world.Manhattan(c.Pos, loot) <= 1 {
		return Decision{Action: ActionLoot, Target: loot}
	}
	if dir, ok := ct.BestDirection(c.Pos, loot); ok {
		return Decision{Action: ActionMove, Target: c.Pos.Step(dir)}
	}
	return ct.randomMove(c)
}

// randomMove picks uniformly among the legal orthogonal steps.
func (ct *Contest) randomMove(c *Combatant) Decision {
	var legal []world.Coord
	for _, n := range c.Pos.Neighbors() {
		if ct.Map.Open(n) {
			legal = append(legal, n)
		}
	}
	if len(legal) == 0 {
		return Decision{Action: ActionPass}
	}
	return Decision{Action: ActionMove, Target: legal[ct.rng.Intn(len(legal))]}
}

// recheck rejects a destination held by a teammate or by someone already
// down, falling back to a random move.
func (ct *Contest) recheck(c *Combatant, d Decision) Decision {
	if d.Action != ActionMove && d.Action != ActionFight {
		return d
	}
	other := ct.Occupant(d.Target)
	if other == nil || other == c {
		return d
	}
	if other.District() == c.District() || other.HP <= 0 {
		return ct.randomMove(c)
	}
	return d
}
