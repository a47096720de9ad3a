// Package arena runs the yearly elimination contest: a turn loop over a
// shrinking world in which each combatant's behavior profile drives its AI.
package arena

import (
	"errors"
	"fmt"

	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/society"
	"github.com/talgya/reaping/internal/world"
)

var (
	// ErrInvalidFight is returned for a fight between combatants that are not
	// orthogonally adjacent, share a district, or are not both alive.
	ErrInvalidFight = errors.New("invalid fight")
	// ErrNoLoot is returned when looting a tile that holds no loot.
	ErrNoLoot = errors.New("no loot on tile")
	// ErrTurnLimit is returned when a contest exceeds its turn bound.
	ErrTurnLimit = errors.New("contest exceeded turn limit")
)

// Entrant is a selected person and the profile they fight with.
type Entrant struct {
	Person  *society.Person
	Profile behavior.Profile
}

// Combatant is one participant in a running contest. The person is borrowed
// from the population; the contest only ever kills them.
type Combatant struct {
	ID      world.OccupantID `json:"id"` // Roster index + 1
	Person  *society.Person  `json:"-"`
	Pos     world.Coord      `json:"pos"`
	HP      int              `json:"hp"`
	Profile behavior.Profile `json:"profile"`
	DiedAt  *int             `json:"died_at,omitempty"` // Turn of elimination
}

// Alive reports whether the combatant is still in the contest.
func (c *Combatant) Alive() bool {
	return c.DiedAt == nil
}

// District returns the combatant's home district.
func (c *Combatant) District() society.DistrictType {
	return c.Person.District
}

func (c *Combatant) String() string {
	return fmt.Sprintf("%s (%s, hp=%d)", c.Person.Name, c.Person.District.Industry(), c.HP)
}

// Rules holds the contest constants.
type Rules struct {
	StartHP     int
	FightDamage int
	LootHP      int // HP after looting
	HideHeal    int

	ShrinkAfter  int // Shrinking starts on turns strictly after this
	ShrinkEvery  int
	ShrinkLead   int // Safe diameter = size - (turn - ShrinkLead)
	RedZoneDelay int // Turns between red-zoning a tile and it turning lethal

	ProximityRadius float64
	GateMultiplier  float64
	GateDivisors    [behavior.NumCategories]float64

	MaxTurns int
}

// DefaultRules returns the standard contest constants.
func DefaultRules() Rules {
	var div [behavior.NumCategories]float64
	div[behavior.Fight] = 100
	div[behavior.Move] = 10
	div[behavior.Hide] = 10
	div[behavior.Loot] = 100

	return Rules{
		StartHP:         99,
		FightDamage:     10,
		LootHP:          150,
		HideHeal:        10,
		ShrinkAfter:     100,
		ShrinkEvery:     15,
		ShrinkLead:      95,
		RedZoneDelay:    10,
		ProximityRadius: 3,
		GateMultiplier:  6.5,
		GateDivisors:    div,
		MaxTurns:        1000,
	}
}
