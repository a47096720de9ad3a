package arena

import (
	"cmp"
	"slices"

	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/society"
)

// Placement is a combatant's final standing. Position 1 outlasted everyone.
type Placement struct {
	Combatant *Combatant
	Position  int
}

// DistrictResult is a district's best-placed combatant.
type DistrictResult struct {
	District society.DistrictType
	PersonID society.PersonID
	Position int
	Profile  behavior.Profile
}

// Result summarizes a finished contest.
type Result struct {
	Year       int
	Turns      int
	Placements []Placement
	Districts  []DistrictResult // One per participating district, by district
}

// Placements ranks combatants by how long they lasted: later turn of death
// ranks higher and anyone still standing ranks above the fallen. Ties keep
// roster order.
func (ct *Contest) Placements() []Placement {
	ranked := slices.Clone(ct.Combatants)
	slices.SortStableFunc(ranked, func(a, b *Combatant) int {
		switch {
		case a.DiedAt == nil && b.DiedAt == nil:
			return 0
		case a.DiedAt == nil:
			return -1
		case b.DiedAt == nil:
			return 1
		default:
			return cmp.Compare(*b.DiedAt, *a.DiedAt)
		}
	})

	out := make([]Placement, len(ranked))
	for i, c := range ranked {
		out[i] = Placement{Combatant: c, Position: i + 1}
	}
	return out
}

// DistrictBest returns, for each participating district, its best-placed
// combatant.
func (ct *Contest) DistrictBest() []DistrictResult {
	seen := make(map[society.DistrictType]bool)
	var out []DistrictResult
	for _, p := range ct.Placements() {
		d := p.Combatant.District()
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, DistrictResult{
			District: d,
			PersonID: p.Combatant.Person.ID,
			Position: p.Position,
			Profile:  p.Combatant.Profile,
		})
	}
	slices.SortFunc(out, func(a, b DistrictResult) int {
		return cmp.Compare(a.District, b.District)
	})
	return out
}

// Result returns the contest summary.
func (ct *Contest) Result() *Result {
	return &Result{
		Year:       ct.Year,
		Turns:      ct.Turn,
		Placements: ct.Placements(),
		Districts:  ct.DistrictBest(),
	}
}
