// Population dynamics: aging, marriage, childbirth, random mortality.
package engine

import (
	"math"

	"github.com/talgya/reaping/internal/entropy"
	"github.com/talgya/reaping/internal/society"
)

// ageDistrict increments the age of every living person by one year.
func (s *Simulation) ageDistrict(d *society.District) {
	for _, p := range d.People {
		if p.Alive {
			p.Age++
		}
	}
}

// makeFamilies pairs unmarried adults of the district. Both sexes are
// shuffled and paired by index; each pair marries with a probability that
// falls as the game's family count and the district's population grow.
// Returns the number of new families.
func (s *Simulation) makeFamilies(d *society.District, year int) (int, error) {
	rng := s.Streams.Population
	minAge := s.Config.Population.MinMarriageAge

	var men, women []*society.Person
	living := 0
	for _, p := range d.People {
		if !p.Alive {
			continue
		}
		living++
		if p.HeadsFamily() || p.Age <= minAge {
			continue
		}
		if p.Sex == society.SexMale {
			men = append(men, p)
		} else {
			women = append(women, p)
		}
	}
	rng.Shuffle(len(men), func(i, j int) { men[i], men[j] = men[j], men[i] })
	rng.Shuffle(len(women), func(i, j int) { women[i], women[j] = women[j], women[i] })

	married := 0
	for i := range min(len(men), len(women)) {
		m, w := men[i], women[i]
		chance := 1 / float64(len(s.Pop.Families)+living)
		if !entropy.Chance(rng, chance) {
			continue
		}
		if m.HeadsFamily() || w.HeadsFamily() {
			continue
		}
		f, err := s.Pop.Marry(m, w, minAge)
		if err != nil {
			return married, err
		}
		married++
		s.addEvent(year, "family", "%s and %s formed the %s family in %s",
			m.Name, w.Name, f.Surname(s.Pop), d.Name())
	}
	return married, nil
}

// makeChildren gives each eligible family of the district a chance at a child.
func (s *Simulation) makeChildren(d *society.District, year int) error {
	rng := s.Streams.Population
	fert := s.fertility()

	for _, f := range s.Pop.FamiliesIn(d.Type) {
		if !f.ShouldHaveChild(rng, s.Pop, fert) {
			continue
		}
		sex := society.Sex(rng.Intn(2))
		name := s.Namer.GivenName(sex) + " " + f.Surname(s.Pop)
		if _, err := s.Pop.AddChild(f, name, sex, year); err != nil {
			return err
		}
	}
	return nil
}

// killPeople draws floor(U * living / divisor) random living people and kills
// them. A draw that lands on someone already killed in this pass is skipped.
func (s *Simulation) killPeople(d *society.District, year int) error {
	rng := s.Streams.Population
	living := d.Living()
	if len(living) == 0 {
		return nil
	}

	draws := int(math.Floor(rng.Float64() * float64(len(living)) / float64(s.Config.Population.MortalityDivisor)))
	for range draws {
		p := living[rng.Intn(len(living))]
		if !p.Alive {
			continue
		}
		if err := p.Kill(year); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) fertility() society.Fertility {
	p := s.Config.Population
	return society.Fertility{
		MinAge:            p.MinChildBearingAge,
		MaxAge:            p.MaxChildBearingAge,
		MaxLivingChildren: p.MaxLivingChildren,
	}
}
