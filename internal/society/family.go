package society

import (
	"fmt"
	"math/rand"
	"strings"
)

// Fertility bounds the ages and family size within which a family may grow.
type Fertility struct {
	MinAge            int // Youngest parent age, inclusive
	MaxAge            int // Oldest parent age, inclusive
	MaxLivingChildren int // No more births once this many children are alive
}

// Family is a married couple plus their children.
type Family struct {
	ID       FamilyID     `json:"id"`
	District DistrictType `json:"district"`
	MaleID   PersonID     `json:"parentMale"`
	FemaleID PersonID     `json:"parentFemale"`
	Children []PersonID   `json:"children"`
}

// NewFamily marries male and female. Any broken precondition is an invariant
// violation; callers are expected to filter candidates first.
func NewFamily(id FamilyID, male, female *Person, minMarriageAge int) (*Family, error) {
	if male.District != female.District {
		return nil, fmt.Errorf("new family: parents in districts %d and %d: %w",
			male.District, female.District, ErrInvariant)
	}
	if male.Sex != SexMale || female.Sex != SexFemale {
		return nil, fmt.Errorf("new family: parents are %s and %s: %w", male.Sex, female.Sex, ErrInvariant)
	}
	if male.Age <= minMarriageAge || female.Age <= minMarriageAge {
		return nil, fmt.Errorf("new family: parents aged %d and %d, must be over %d: %w",
			male.Age, female.Age, minMarriageAge, ErrInvariant)
	}
	if male.HeadsFamily() {
		return nil, fmt.Errorf("new family: person %d already heads family %d: %w", male.ID, *male.FamilyID, ErrInvariant)
	}
	if female.HeadsFamily() {
		return nil, fmt.Errorf("new family: person %d already heads family %d: %w", female.ID, *female.FamilyID, ErrInvariant)
	}

	f := &Family{
		ID:       id,
		District: male.District,
		MaleID:   male.ID,
		FemaleID: female.ID,
	}
	fid := id
	male.FamilyID = &fid
	female.FamilyID = &fid
	return f, nil
}

// LivingChildren counts the family's children that are still alive.
func (f *Family) LivingChildren(pop *Population) int {
	n := 0
	for _, id := range f.Children {
		if c := pop.Person(id); c != nil && c.Alive {
			n++
		}
	}
	return n
}

// CanHaveChild reports whether both parents are alive, within the fertile
// age window, and the family is below its living-children cap.
func (f *Family) CanHaveChild(pop *Population, fert Fertility) bool {
	male, female := pop.Person(f.MaleID), pop.Person(f.FemaleID)
	if male == nil || female == nil || !male.Alive || !female.Alive {
		return false
	}
	for _, age := range [2]int{male.Age, female.Age} {
		if age < fert.MinAge || age > fert.MaxAge {
			return false
		}
	}
	return f.LivingChildren(pop) < fert.MaxLivingChildren
}

// ShouldHaveChild draws whether an eligible family has a child this year.
// The odds fall as the family grows: 1 / (living children + 2).
func (f *Family) ShouldHaveChild(rng *rand.Rand, pop *Population, fert Fertility) bool {
	if !f.CanHaveChild(pop, fert) {
		return false
	}
	p := 1.0 / float64(f.LivingChildren(pop)+2)
	return rng.Float64() < p
}

// Surname returns the father's last name.
func (f *Family) Surname(pop *Population) string {
	father := pop.Person(f.MaleID)
	if father == nil {
		return ""
	}
	parts := strings.Fields(father.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
