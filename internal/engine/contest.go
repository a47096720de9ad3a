package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/reaping/internal/arena"
	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/world"
)

// LeaderboardEntry records a district's best placement in one year's contest.
type LeaderboardEntry struct {
	District int `json:"district"`
	Position int `json:"position"`
	Year     int `json:"year"`
}

// runContest selects every district's roster, draws their profiles, builds
// the arena and runs the contest to the end. Deaths land on the people
// directly; placements go to the leaderboard and each participating
// district keeps its best combatant's profile for next year. A district that
// sat the year out is left with none.
func (s *Simulation) runContest(year int) (*arena.Result, error) {
	diff := s.allowedDifference(year)

	var entrants []arena.Entrant
	for _, d := range s.Pop.Districts {
		for _, p := range SelectRoster(s.Streams.Population, d.People, s.Config.Selection) {
			entrants = append(entrants, arena.Entrant{
				Person:  p,
				Profile: behavior.Generate(s.Streams.Profiles, d.BestProfile, diff),
			})
		}
	}

	m, err := s.buildWorld()
	if err != nil {
		return nil, fmt.Errorf("build arena: %w", err)
	}
	for t, n := range m.TerrainCounts() {
		slog.Debug("arena terrain", "year", year, "type", world.TerrainName(t), "count", n)
	}
	ct, err := arena.NewContest(m, entrants, year, s.rules(), s.Streams.Arena)
	if err != nil {
		return nil, err
	}
	res, err := ct.Run()
	if err != nil {
		return nil, err
	}

	for _, d := range s.Pop.Districts {
		d.BestProfile = nil
	}
	for _, r := range res.Districts {
		d := s.Pop.District(r.District)
		if d == nil {
			return nil, fmt.Errorf("contest result for unknown district %d", r.District)
		}
		profile := r.Profile
		d.BestProfile = &profile
		s.Leaderboard = append(s.Leaderboard, LeaderboardEntry{
			District: int(r.District),
			Position: r.Position,
			Year:     year,
		})
	}
	if len(res.Placements) > 0 {
		winner := res.Placements[0].Combatant
		s.addEvent(year, "contest", "%s of %s outlasted %d others over %d turns",
			winner.Person.Name, s.Pop.District(winner.District()).Name(), len(res.Placements)-1, res.Turns)
	}
	return res, nil
}
