// Package behavior generates combatant action-preference profiles.
// A profile splits a fixed budget of points across four categories; the arena
// AI turns those points into per-turn probabilities.
package behavior

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Category is one of the four action preferences.
type Category uint8

const (
	Fight Category = iota
	Hide
	Loot
	Move
)

// NumCategories is the number of preference categories.
const NumCategories = 4

// Profile budget.
const (
	Total = 20
	Min   = 1
	Max   = Total - Min*NumCategories // 16
)

// Categories lists every category in declaration order.
var Categories = [NumCategories]Category{Fight, Hide, Loot, Move}

// String returns the lowercase category name used in exports.
func (c Category) String() string {
	switch c {
	case Fight:
		return "fight"
	case Hide:
		return "hide"
	case Loot:
		return "loot"
	case Move:
		return "move"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Profile holds the preference points for each category.
type Profile [NumCategories]int

// Sum returns the total number of points in the profile.
func (p Profile) Sum() int {
	total := 0
	for _, v := range p {
		total += v
	}
	return total
}

// Valid reports whether the profile spends exactly the budget with every
// category at or above the minimum.
func (p Profile) Valid() bool {
	for _, v := range p {
		if v < Min {
			return false
		}
	}
	return p.Sum() == Total
}

// MarshalJSON encodes the profile as {"fight":n,"hide":n,"loot":n,"move":n}.
func (p Profile) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, NumCategories)
	for _, c := range Categories {
		m[c.String()] = p[c]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the keyed form written by MarshalJSON.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for _, c := range Categories {
		p[c] = m[c.String()]
	}
	return nil
}

// AllowedDifference is how far a draw may stray from the seeded value. It
// narrows to zero as the run approaches its final year.
func AllowedDifference(year, totalYears int) int {
	d := totalYears - year
	if d < 0 {
		return 0
	}
	return d
}

// statRange returns the inclusive draw range for one category. The seed value
// is clamped into [Min, Max] first so the range is never empty.
func statRange(seed *Profile, c Category, allowedDifference int) (int, int) {
	if seed == nil {
		return Min, Max
	}
	best := min(max(seed[c], Min), Max)
	d := max(allowedDifference, 0)
	return max(best-d, Min), min(best+d, Max)
}

// Generate draws a new profile. With a seed each category stays within
// allowedDifference of the seed's value; without one every category is drawn
// over the full range. The result always sums to Total with no category
// below Min.
func Generate(rng *rand.Rand, seed *Profile, allowedDifference int) Profile {
	order := Categories
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var p Profile
	remaining := Total
	for _, c := range order {
		lo, hi := statRange(seed, c, allowedDifference)
		v := lo + rng.Intn(hi-lo+1)
		p[c] = v
		remaining -= v
	}

	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	switch {
	case remaining > 0:
		p[order[0]] += remaining
	case remaining < 0:
		excess := -remaining
		for _, c := range order {
			spare := p[c] - Min
			if excess <= spare {
				p[c] -= excess
				break
			}
			p[c] = Min
			excess -= spare
		}
	}
	return p
}
