package engine

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/talgya/reaping/internal/society"
)

// ExportedPerson is a person as seen by the dashboard.
type ExportedPerson struct {
	ID       society.PersonID `json:"id"`
	District int              `json:"district"`
	Name     string           `json:"name"`
	Sex      society.Sex      `json:"sex"`
	Age      int              `json:"age"`
	DiedAt   *int             `json:"diedAt"`
	BornAt   int              `json:"bornAt"`
}

// ExportedFamily lists a family by member ids.
type ExportedFamily struct {
	ParentMale   society.PersonID   `json:"parentMale"`
	ParentFemale society.PersonID   `json:"parentFemale"`
	Children     []society.PersonID `json:"children"`
}

// Metadata describes the run that produced a snapshot.
type Metadata struct {
	Date              string `json:"date"`
	YearsSimulated    int    `json:"years_simulated"`
	PeoplePerDistrict int    `json:"people_per_district"`
	Seed              int64  `json:"seed"`
	RunID             string `json:"run_id"`
}

// Snapshot is the complete exportable state of a run. Census and family maps
// are keyed by district number.
type Snapshot struct {
	People         []ExportedPerson         `json:"people"`
	DistrictCensus map[int][]society.Census `json:"districtCensus"`
	Leaderboard    []LeaderboardEntry       `json:"leaderboard"`
	Families       map[int][]ExportedFamily `json:"families"`
	Metadata       Metadata                 `json:"metadata"`
}

// Export builds a snapshot of the current state. It reads only; the result
// shares nothing mutable with the simulation.
func (s *Simulation) Export() Snapshot {
	snap := Snapshot{
		DistrictCensus: make(map[int][]society.Census, len(s.Pop.Districts)),
		Leaderboard:    slices.Clone(s.Leaderboard),
		Families:       make(map[int][]ExportedFamily, len(s.Pop.Districts)),
		Metadata: Metadata{
			Date:              s.Now().UTC().Format(time.RFC3339),
			YearsSimulated:    s.Year,
			PeoplePerDistrict: s.Config.Population.PeoplePerDistrict,
			Seed:              s.Streams.Seed,
			RunID:             s.RunID,
		},
	}
	if snap.Leaderboard == nil {
		snap.Leaderboard = []LeaderboardEntry{}
	}

	for _, d := range s.Pop.Districts {
		key := int(d.Type)
		for _, p := range d.People {
			snap.People = append(snap.People, ExportedPerson{
				ID:       p.ID,
				District: key,
				Name:     p.Name,
				Sex:      p.Sex,
				Age:      p.Age,
				DiedAt:   cloneInt(p.DiedAt),
				BornAt:   p.BornAt,
			})
		}

		census := make([]society.Census, len(d.Census))
		for i, c := range d.Census {
			census[i] = c
			if c.BestProfile != nil {
				best := *c.BestProfile
				census[i].BestProfile = &best
			}
		}
		snap.DistrictCensus[key] = census

		families := []ExportedFamily{}
		for _, f := range s.Pop.FamiliesIn(d.Type) {
			children := slices.Clone(f.Children)
			if children == nil {
				children = []society.PersonID{}
			}
			families = append(families, ExportedFamily{
				ParentMale:   f.MaleID,
				ParentFemale: f.FemaleID,
				Children:     children,
			})
		}
		snap.Families[key] = families
	}
	slices.SortFunc(snap.People, func(a, b ExportedPerson) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return snap
}

// Totals reconstructs run-wide census totals from the snapshot.
func (snap Snapshot) Totals() CensusTotals {
	return TotalsFromCensus(snap.DistrictCensus)
}

// WriteFile writes the snapshot as indented JSON.
func (snap Snapshot) WriteFile(path string) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
