package society

import (
	"fmt"
)

// Population is the owning registry for districts, people and families. It
// also holds the id allocators, so ids are unique for the life of one run.
type Population struct {
	Districts []*District
	Families  []*Family

	people       map[PersonID]*Person
	districts    map[DistrictType]*District
	families     map[FamilyID]*Family
	nextPersonID PersonID
	nextFamilyID FamilyID
}

// NewPopulation creates a registry with one empty district per type.
func NewPopulation(types []DistrictType) *Population {
	pop := &Population{
		people:       make(map[PersonID]*Person),
		districts:    make(map[DistrictType]*District, len(types)),
		families:     make(map[FamilyID]*Family),
		nextPersonID: 1,
		nextFamilyID: 1,
	}
	for _, t := range types {
		d := NewDistrict(t)
		pop.Districts = append(pop.Districts, d)
		pop.districts[t] = d
	}
	return pop
}

// Person looks up a person by id, or nil.
func (pop *Population) Person(id PersonID) *Person {
	return pop.people[id]
}

// District looks up a district by type, or nil.
func (pop *Population) District(t DistrictType) *District {
	return pop.districts[t]
}

// Family looks up a family by id, or nil.
func (pop *Population) Family(id FamilyID) *Family {
	return pop.families[id]
}

// PeopleCount returns the number of people ever registered.
func (pop *Population) PeopleCount() int {
	return len(pop.people)
}

// AddPerson allocates an id for a new person and registers them with their
// district.
func (pop *Population) AddPerson(name string, sex Sex, age int, district DistrictType, year int) (*Person, error) {
	d := pop.districts[district]
	if d == nil {
		return nil, fmt.Errorf("add person: unknown district %d: %w", district, ErrInvariant)
	}
	p := &Person{
		ID:       pop.nextPersonID,
		Name:     name,
		Sex:      sex,
		Age:      age,
		District: district,
		Alive:    true,
		BornAt:   year,
	}
	pop.nextPersonID++
	pop.people[p.ID] = p
	d.People = append(d.People, p)
	return p, nil
}

// Marry forms a family from two people, allocating its id.
func (pop *Population) Marry(male, female *Person, minMarriageAge int) (*Family, error) {
	f, err := NewFamily(pop.nextFamilyID, male, female, minMarriageAge)
	if err != nil {
		return nil, err
	}
	pop.nextFamilyID++
	pop.Families = append(pop.Families, f)
	pop.families[f.ID] = f
	return f, nil
}

// AddChild registers a newborn and attaches them to the family and its district.
func (pop *Population) AddChild(f *Family, name string, sex Sex, year int) (*Person, error) {
	child, err := pop.AddPerson(name, sex, 0, f.District, year)
	if err != nil {
		return nil, err
	}
	fid := f.ID
	child.ParentFamilyID = &fid
	f.Children = append(f.Children, child.ID)
	return child, nil
}

// FamiliesIn returns the families of one district, in formation order.
func (pop *Population) FamiliesIn(t DistrictType) []*Family {
	var out []*Family
	for _, f := range pop.Families {
		if f.District == t {
			out = append(out, f)
		}
	}
	return out
}
