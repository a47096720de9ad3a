package arena

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/society"
	"github.com/talgya/reaping/internal/world"
)

// State is the contest lifecycle state.
type State uint8

const (
	StateRunning State = iota
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game over"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Contest is one year's arena. It owns the map and the combatants; the
// people behind the combatants stay owned by the population.
type Contest struct {
	Map        *world.Map
	Combatants []*Combatant
	Year       int
	Turn       int
	State      State

	rules Rules
	rng   *rand.Rand
}

// NewContest places every entrant on the map. Each participating district is
// given two spawn tiles, one for its men and one for its women; entrants go to
// the nearest free tile to their entry point.
func NewContest(m *world.Map, entrants []Entrant, year int, rules Rules, rng *rand.Rand) (*Contest, error) {
	ct := &Contest{
		Map:   m,
		Year:  year,
		rules: rules,
		rng:   rng,
	}

	var districts []society.DistrictType
	for _, e := range entrants {
		if e.Person == nil || !e.Person.Alive {
			return nil, fmt.Errorf("new contest: entrant is not a living person: %w", society.ErrInvariant)
		}
		if !e.Profile.Valid() {
			return nil, fmt.Errorf("new contest: invalid profile %v for %s: %w", e.Profile, e.Person.Name, society.ErrInvariant)
		}
		if !slices.Contains(districts, e.Person.District) {
			districts = append(districts, e.Person.District)
		}
	}
	slices.Sort(districts)

	spawns := m.Find(world.TerrainSpawn)
	if len(spawns) < 2*len(districts) {
		return nil, fmt.Errorf("new contest: %d spawn tiles for %d districts: %w", len(spawns), len(districts), world.ErrSpawnCount)
	}
	rng.Shuffle(len(spawns), func(i, j int) { spawns[i], spawns[j] = spawns[j], spawns[i] })

	for i, e := range entrants {
		d := slices.Index(districts, e.Person.District)
		entry := spawns[2*d+int(e.Person.Sex)]
		pos, ok := ct.nearestFree(entry)
		if !ok {
			return nil, fmt.Errorf("new contest: no free tile for %s: %w", e.Person.Name, world.ErrOccupied)
		}
		c := &Combatant{
			ID:      world.OccupantID(i + 1),
			Person:  e.Person,
			Pos:     pos,
			HP:      rules.StartHP,
			Profile: e.Profile,
		}
		if err := m.Place(pos, c.ID); err != nil {
			return nil, fmt.Errorf("new contest: %w", err)
		}
		ct.Combatants = append(ct.Combatants, c)
	}

	if ct.AliveCount() == 0 {
		ct.State = StateGameOver
	}
	return ct, nil
}

// nearestFree runs a breadth-first search outward from start over existing
// tiles and returns the first unoccupied one.
func (ct *Contest) nearestFree(start world.Coord) (world.Coord, bool) {
	if ct.Map.Get(start) == nil {
		return world.Coord{}, false
	}
	seen := map[world.Coord]bool{start: true}
	queue := []world.Coord{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if ct.Map.Open(c) {
			return c, true
		}
		for _, n := range c.Neighbors() {
			if !seen[n] && ct.Map.Get(n) != nil {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return world.Coord{}, false
}

// Occupant returns the combatant standing at c, or nil.
func (ct *Contest) Occupant(c world.Coord) *Combatant {
	t := ct.Map.Get(c)
	if t == nil || !t.Occupied() {
		return nil
	}
	return ct.Combatants[t.Occupant-1]
}

// AliveCount returns how many combatants are still in the contest.
func (ct *Contest) AliveCount() int {
	n := 0
	for _, c := range ct.Combatants {
		if c.Alive() {
			n++
		}
	}
	return n
}

// Run steps the contest until nobody is left alive.
func (ct *Contest) Run() (*Result, error) {
	for ct.State == StateRunning {
		if ct.Turn >= ct.rules.MaxTurns {
			return nil, fmt.Errorf("year %d: %d combatants alive after %d turns: %w",
				ct.Year, ct.AliveCount(), ct.Turn, ErrTurnLimit)
		}
		if err := ct.Step(); err != nil {
			return nil, err
		}
	}
	slog.Info("contest over", "year", ct.Year, "turns", ct.Turn, "combatants", len(ct.Combatants))
	return ct.Result(), nil
}

// Step advances the contest by one turn: red-zone culling, the shrink
// schedule, one action per living combatant, then the game-over check.
func (ct *Contest) Step() error {
	if ct.State == StateGameOver {
		return nil
	}

	if err := ct.cull(); err != nil {
		return err
	}
	ct.shrink()

	for _, c := range ct.Combatants {
		if !c.Alive() {
			continue
		}
		if err := ct.act(c); err != nil {
			return fmt.Errorf("year %d turn %d: %w", ct.Year, ct.Turn, err)
		}
	}

	ct.Turn++
	if ct.AliveCount() == 0 {
		ct.State = StateGameOver
	}
	return nil
}

// cull eliminates everyone standing on a tile whose red-zone deadline has come.
func (ct *Contest) cull() error {
	for _, c := range ct.Combatants {
		if !c.Alive() {
			continue
		}
		if t := ct.Map.Get(c.Pos); t.RedZone != 0 && t.RedZone <= ct.Turn {
			c.HP = 0
			if err := ct.eliminate(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// shrink tightens the red zone on schedule. Deadlines only ever move earlier.
func (ct *Contest) shrink() {
	r := ct.rules
	if ct.Turn <= r.ShrinkAfter || ct.Turn%r.ShrinkEvery != 0 {
		return
	}
	radius := float64(ct.Map.Size-(ct.Turn-r.ShrinkLead)) / 2
	center := ct.Map.Center()
	deadline := ct.Turn + r.RedZoneDelay
	for _, c := range ct.Map.Coords() {
		if world.InCircle(c, center, radius) {
			continue
		}
		t := ct.Map.Get(c)
		if t.RedZone == 0 || deadline < t.RedZone {
			t.RedZone = deadline
		}
	}
	slog.Debug("safe zone shrunk", "year", ct.Year, "turn", ct.Turn, "radius", radius)
}

// act lets one combatant decide and carries out the decision.
func (ct *Contest) act(c *Combatant) error {
	d := ct.decide(c)
	switch d.Action {
	case ActionFight:
		return ct.Fight(c, ct.Occupant(d.Target))
	case ActionMove:
		if err := ct.Map.Move(c.Pos, d.Target); err != nil {
			return fmt.Errorf("%s: %w", c.Person.Name, err)
		}
		c.Pos = d.Target
		return nil
	case ActionHide:
		c.HP += ct.rules.HideHeal
		return nil
	case ActionLoot:
		return ct.Loot(c, d.Target)
	case ActionPass:
		return nil
	default:
		return fmt.Errorf("%s: unknown action %d: %w", c.Person.Name, d.Action, society.ErrInvariant)
	}
}

// Fight resolves one blow from attacker on defender. A defender brought to
// zero is eliminated and the attacker takes their tile.
func (ct *Contest) Fight(attacker, defender *Combatant) error {
	switch {
	case attacker == nil || defender == nil:
		return fmt.Errorf("fight: missing combatant: %w", ErrInvalidFight)
	case !attacker.Alive() || !defender.Alive() || defender.HP <= 0:
		return fmt.Errorf("fight %s -> %s: not both alive: %w", attacker.Person.Name, defender.Person.Name, ErrInvalidFight)
	case attacker.District() == defender.District():
		return fmt.Errorf("fight %s -> %s: same district: %w", attacker.Person.Name, defender.Person.Name, ErrInvalidFight)
	case !world.IsOrthogonal(attacker.Pos, defender.Pos):
		return fmt.Errorf("fight %s %v -> %s %v: not adjacent: %w",
			attacker.Person.Name, attacker.Pos, defender.Person.Name, defender.Pos, ErrInvalidFight)
	}

	defender.HP = max(defender.HP-ct.rules.FightDamage, 0)
	if defender.HP > 0 {
		return nil
	}
	if err := ct.eliminate(defender); err != nil {
		return err
	}
	if err := ct.Map.Move(attacker.Pos, defender.Pos); err != nil {
		return fmt.Errorf("fight %s: take tile: %w", attacker.Person.Name, err)
	}
	attacker.Pos = defender.Pos
	return nil
}

// Loot consumes the loot on c, which must be the actor's tile or orthogonally
// adjacent to it.
func (ct *Contest) Loot(actor *Combatant, c world.Coord) error {
	t := ct.Map.Get(c)
	if t == nil || t.Terrain != world.TerrainLoot {
		return fmt.Errorf("%s loots %v: %w", actor.Person.Name, c, ErrNoLoot)
	}
	if world.Manhattan(actor.Pos, c) > 1 {
		return fmt.Errorf("%s loots %v from %v: %w", actor.Person.Name, c, actor.Pos, world.ErrNotAdjacent)
	}
	t.Terrain = world.TerrainPlain
	actor.HP = ct.rules.LootHP
	return nil
}

// eliminate removes a combatant from play: the person dies this year and the
// tile is vacated.
func (ct *Contest) eliminate(c *Combatant) error {
	if err := c.Person.Kill(ct.Year); err != nil {
		return fmt.Errorf("eliminate %s: %w", c.Person.Name, err)
	}
	turn := ct.Turn
	c.DiedAt = &turn
	c.HP = 0
	ct.Map.Vacate(c.Pos)
	slog.Debug("combatant eliminated", "year", ct.Year, "turn", turn, "name", c.Person.Name, "district", c.District().Industry())
	return nil
}

// profileGate reports whether the category's gate passes this turn.
func (ct *Contest) profileGate(p behavior.Profile, cat behavior.Category) bool {
	chance := float64(p[cat]) / ct.rules.GateDivisors[cat] * ct.rules.GateMultiplier
	return ct.rng.Float64() <= chance
}
