package society

import (
	"fmt"

	"github.com/talgya/reaping/internal/behavior"
)

// DistrictType identifies one of the twelve districts.
type DistrictType uint8

const (
	DistrictLuxury DistrictType = iota + 1
	DistrictMasonry
	DistrictElectronics
	DistrictFishing
	DistrictPower
	DistrictTransportation
	DistrictLumber
	DistrictTextiles
	DistrictGrain
	DistrictLivestock
	DistrictAgriculture
	DistrictCoal
)

// NumDistricts is the number of district types.
const NumDistricts = 12

// AllDistricts lists every district type in order.
var AllDistricts = [NumDistricts]DistrictType{
	DistrictLuxury, DistrictMasonry, DistrictElectronics, DistrictFishing,
	DistrictPower, DistrictTransportation, DistrictLumber, DistrictTextiles,
	DistrictGrain, DistrictLivestock, DistrictAgriculture, DistrictCoal,
}

// Industry returns the district's industry label.
func (d DistrictType) Industry() string {
	switch d {
	case DistrictLuxury:
		return "Luxury Items"
	case DistrictMasonry:
		return "Masonry"
	case DistrictElectronics:
		return "Electronics"
	case DistrictFishing:
		return "Fishing"
	case DistrictPower:
		return "Power"
	case DistrictTransportation:
		return "Transportation"
	case DistrictLumber:
		return "Lumber"
	case DistrictTextiles:
		return "Textiles"
	case DistrictGrain:
		return "Grain"
	case DistrictLivestock:
		return "Livestock"
	case DistrictAgriculture:
		return "Agriculture"
	case DistrictCoal:
		return "Coal"
	default:
		return "Unknown"
	}
}

// Census is one district's yearly record.
type Census struct {
	Year        int               `json:"year"`
	Births      int               `json:"births"`
	Deaths      int               `json:"deaths"`
	Population  int               `json:"population"`
	Nourishment float64           `json:"nourishment"`
	BestProfile *behavior.Profile `json:"bestTurnAction"`
}

// District owns its people and keeps the yearly census.
type District struct {
	Type        DistrictType `json:"type"`
	People      []*Person    `json:"-"`
	Nourishment float64      `json:"nourishment"` // 0–100, static for now
	Census      []Census     `json:"census"`

	// Profile of last year's best-placed combatant, seed for next year's draws.
	BestProfile *behavior.Profile `json:"best_profile,omitempty"`
}

// NewDistrict creates an empty district.
func NewDistrict(t DistrictType) *District {
	return &District{Type: t, Nourishment: 50}
}

// Name returns "District N: Industry".
func (d *District) Name() string {
	return fmt.Sprintf("District %d: %s", d.Type, d.Type.Industry())
}

// Living returns the district's living people in registration order.
func (d *District) Living() []*Person {
	var alive []*Person
	for _, p := range d.People {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// LivingCount counts living people without allocating.
func (d *District) LivingCount() int {
	n := 0
	for _, p := range d.People {
		if p.Alive {
			n++
		}
	}
	return n
}

// AddCensus appends a census record.
func (d *District) AddCensus(c Census) {
	d.Census = append(d.Census, c)
}
