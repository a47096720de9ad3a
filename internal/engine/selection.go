package engine

import (
	"math/rand"

	"github.com/talgya/reaping/internal/config"
	"github.com/talgya/reaping/internal/society"
)

// SelectRoster draws a district's combatants for the year. Candidates are the
// living with an age strictly inside the fight window, in random order. While
// filling the roster, whenever the less common sex falls under the minimum
// share, the next pick comes from that sex if any remain. An empty result
// means the district sits the contest out.
func SelectRoster(rng *rand.Rand, people []*society.Person, cfg config.SelectionConfig) []*society.Person {
	var candidates []*society.Person
	for _, p := range people {
		if p.Alive && p.Age > cfg.MinFightAge && p.Age < cfg.MaxFightAge {
			candidates = append(candidates, p)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	taken := make([]bool, len(candidates))
	next := func(match func(*society.Person) bool) int {
		for i, p := range candidates {
			if !taken[i] && match(p) {
				return i
			}
		}
		return -1
	}
	anyone := func(*society.Person) bool { return true }

	roster := make([]*society.Person, 0, cfg.RosterSize)
	males := 0
	for len(roster) < cfg.RosterSize {
		pick := -1
		if n := len(roster); n > 0 {
			females := n - males
			if float64(min(males, females))/float64(n) < cfg.MinSexShare {
				majority := society.SexFemale
				if males > females {
					majority = society.SexMale
				}
				want := majority.Opposite()
				pick = next(func(p *society.Person) bool { return p.Sex == want })
			}
		}
		if pick < 0 {
			pick = next(anyone)
		}
		if pick < 0 {
			break
		}
		taken[pick] = true
		p := candidates[pick]
		roster = append(roster, p)
		if p.Sex == society.SexMale {
			males++
		}
	}
	return roster
}
