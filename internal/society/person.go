// Package society provides the person, family and district data model.
// Entities live in owning collections and refer to each other by id.
package society

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a broken model invariant: a caller bug, never an
// expected runtime state.
var ErrInvariant = errors.New("invariant violated")

// PersonID is a unique identifier for a person.
type PersonID uint64

// FamilyID is a unique identifier for a family.
type FamilyID uint64

// Sex represents biological sex for demographic simulation.
type Sex uint8

const (
	SexMale   Sex = 0
	SexFemale Sex = 1
)

// String returns "male" or "female".
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return fmt.Sprintf("sex(%d)", uint8(s))
	}
}

// Opposite returns the other sex.
func (s Sex) Opposite() Sex {
	if s == SexMale {
		return SexFemale
	}
	return SexMale
}

// MarshalText encodes the sex as its name.
func (s Sex) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "male" or "female".
func (s *Sex) UnmarshalText(text []byte) error {
	switch string(text) {
	case "male":
		*s = SexMale
	case "female":
		*s = SexFemale
	default:
		return fmt.Errorf("unknown sex %q", text)
	}
	return nil
}

// Person is one member of a district's population.
type Person struct {
	ID       PersonID     `json:"id"`
	Name     string       `json:"name"`
	Sex      Sex          `json:"sex"`
	Age      int          `json:"age"`
	District DistrictType `json:"district"`

	Alive  bool `json:"alive"`
	DiedAt *int `json:"diedAt"`
	BornAt int  `json:"bornAt"` // Simulation year of birth, 0 for founders

	FamilyID       *FamilyID `json:"familyId,omitempty"`       // Family this person heads
	ParentFamilyID *FamilyID `json:"parentFamilyId,omitempty"` // Family this person was born into
}

// Kill marks the person dead in the given year. Death is one-way.
func (p *Person) Kill(year int) error {
	if !p.Alive {
		return fmt.Errorf("kill person %d: already dead: %w", p.ID, ErrInvariant)
	}
	p.Alive = false
	y := year
	p.DiedAt = &y
	return nil
}

// HeadsFamily reports whether the person is a parent of a family.
func (p *Person) HeadsFamily() bool {
	return p.FamilyID != nil
}
