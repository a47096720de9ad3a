package engine

import (
	"github.com/talgya/reaping/internal/society"
)

// recordCensus appends this year's record to every district and returns the
// records in district order.
func (s *Simulation) recordCensus(year int) []society.Census {
	out := make([]society.Census, 0, len(s.Pop.Districts))
	for _, d := range s.Pop.Districts {
		c := society.Census{
			Year:        year,
			Population:  d.LivingCount(),
			Nourishment: d.Nourishment,
		}
		for _, p := range d.People {
			if p.BornAt == year {
				c.Births++
			}
			if p.DiedAt != nil && *p.DiedAt == year {
				c.Deaths++
			}
		}
		if d.BestProfile != nil {
			best := *d.BestProfile
			c.BestProfile = &best
		}
		d.AddCensus(c)
		out = append(out, c)
	}
	return out
}

// CensusTotals are run-wide sums over every census record.
type CensusTotals struct {
	Births     int `json:"births"`
	Deaths     int `json:"deaths"`
	Population int `json:"population"` // Living at the last census
}

// TotalsFromCensus sums births and deaths across all districts and years and
// takes the last recorded population of each district.
func TotalsFromCensus(census map[int][]society.Census) CensusTotals {
	var t CensusTotals
	for _, records := range census {
		for _, c := range records {
			t.Births += c.Births
			t.Deaths += c.Deaths
		}
		if n := len(records); n > 0 {
			t.Population += records[n-1].Population
		}
	}
	return t
}
