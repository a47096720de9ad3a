// Package engine advances the simulation one year at a time: demography in
// every district, the reaping, the contest, then the census.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/reaping/internal/arena"
	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/config"
	"github.com/talgya/reaping/internal/entropy"
	"github.com/talgya/reaping/internal/society"
	"github.com/talgya/reaping/internal/world"
)

// maxEvents bounds the recent-events log.
const maxEvents = 500

// Event is a notable occurrence in the simulation.
type Event struct {
	Year        int    `json:"year"`
	Description string `json:"description"`
	Category    string `json:"category"` // "family", "birth", "death", "contest"
}

// YearStats summarizes one simulated year across all districts.
type YearStats struct {
	Year        int `json:"year"`
	Births      int `json:"births"`
	Deaths      int `json:"deaths"`
	Marriages   int `json:"marriages"`
	Population  int `json:"population"`
	Combatants  int `json:"combatants"`
	ArenaTurns  int `json:"arena_turns"`
	Contestants int `json:"contesting_districts"`
}

// Simulation holds the complete state of a run and wires the yearly phases
// together. It is not safe for concurrent use; one goroutine advances it.
type Simulation struct {
	Config  config.Config
	Pop     *society.Population
	Streams *entropy.Streams
	Namer   society.Namer
	RunID   string

	Year        int // Years completed
	Leaderboard []LeaderboardEntry
	Events      []Event
	Stats       YearStats // Most recent year

	// Now stamps exports. Tests replace it.
	Now func() time.Time

	layout   string // Literal arena layout, when configured
	founders int
}

// NewSimulation validates cfg, derives the random streams from its seed, and
// populates every district with founders.
func NewSimulation(cfg config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	streams := entropy.NewStreams(cfg.Seed)

	runID, err := uuid.NewRandomFromReader(streams.Meta)
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}

	pop := society.NewPopulation(society.AllDistricts[:])
	for _, d := range pop.Districts {
		d.Nourishment = cfg.Population.Nourishment
	}
	namer := society.NewPoolNamer(streams.Names)
	if err := pop.SpawnFounders(cfg.Population.PeoplePerDistrict, namer); err != nil {
		return nil, fmt.Errorf("spawn founders: %w", err)
	}

	s := &Simulation{
		Config:   cfg,
		Pop:      pop,
		Streams:  streams,
		Namer:    namer,
		RunID:    runID.String(),
		Now:      time.Now,
		founders: pop.PeopleCount(),
	}

	if cfg.World.Layout != "" {
		b, err := os.ReadFile(cfg.World.Layout)
		if err != nil {
			return nil, fmt.Errorf("read layout: %w", err)
		}
		s.layout = string(b)
	}

	slog.Info("simulation created",
		"run_id", s.RunID,
		"seed", streams.Seed,
		"districts", len(pop.Districts),
		"founders", s.founders,
	)
	return s, nil
}

// Run advances the configured number of years. Any invariant violation stops
// the run and is returned.
func (s *Simulation) Run() error {
	for s.Year < s.Config.Years {
		if _, err := s.AdvanceYear(); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceYear simulates one full year: per-district aging, marriage,
// childbirth and mortality, then the contest, then the census.
func (s *Simulation) AdvanceYear() (YearStats, error) {
	year := s.Year + 1
	stats := YearStats{Year: year}

	for _, d := range s.Pop.Districts {
		s.ageDistrict(d)
		married, err := s.makeFamilies(d, year)
		if err != nil {
			return stats, fmt.Errorf("year %d %s: %w", year, d.Name(), err)
		}
		stats.Marriages += married
		if err := s.makeChildren(d, year); err != nil {
			return stats, fmt.Errorf("year %d %s: %w", year, d.Name(), err)
		}
		if err := s.killPeople(d, year); err != nil {
			return stats, fmt.Errorf("year %d %s: %w", year, d.Name(), err)
		}
	}

	res, err := s.runContest(year)
	if err != nil {
		return stats, fmt.Errorf("year %d contest: %w", year, err)
	}
	stats.Combatants = len(res.Placements)
	stats.ArenaTurns = res.Turns
	stats.Contestants = len(res.Districts)

	for _, c := range s.recordCensus(year) {
		stats.Births += c.Births
		stats.Deaths += c.Deaths
		stats.Population += c.Population
	}

	s.Year = year
	s.Stats = stats
	slog.Info("year complete",
		"year", year,
		"births", stats.Births,
		"deaths", stats.Deaths,
		"marriages", stats.Marriages,
		"population", stats.Population,
	)
	return stats, nil
}

// allowedDifference is how far this year's profiles may drift from each
// district's best profile.
func (s *Simulation) allowedDifference(year int) int {
	return max(behavior.AllowedDifference(year, s.Config.Years), s.Config.Profile.MinDifference)
}

// rules maps the arena section of the config onto contest rules.
func (s *Simulation) rules() arena.Rules {
	a := s.Config.Arena
	r := arena.DefaultRules()
	r.StartHP = a.StartHP
	r.FightDamage = a.FightDamage
	r.LootHP = a.LootHP
	r.HideHeal = a.HideHeal
	r.ShrinkAfter = a.ShrinkAfter
	r.ShrinkEvery = a.ShrinkEvery
	r.ShrinkLead = a.ShrinkLead
	r.RedZoneDelay = a.RedZoneDelay
	r.ProximityRadius = a.ProximityRadius
	r.GateMultiplier = a.GateMultiplier
	r.MaxTurns = a.MaxTurns
	return r
}

// buildWorld generates this year's arena, or parses the configured layout.
func (s *Simulation) buildWorld() (*world.Map, error) {
	districts := len(s.Pop.Districts)
	if s.layout != "" {
		return world.ParseLayout(s.layout, districts)
	}
	w := s.Config.World
	return world.Generate(world.GenConfig{
		Size:             w.Size,
		SpawnRingRadius:  w.SpawnRingRadius,
		SpawnGroups:      w.SpawnGroups,
		SpawnGroupOffset: w.SpawnGroupOffset,
		Districts:        districts,
		Terrain:          world.TerrainMode(w.Terrain),
	}, s.Streams.Arena)
}

// addEvent appends to the events log, trimming the oldest entries.
func (s *Simulation) addEvent(year int, category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Year:        year,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
	if n := len(s.Events); n > maxEvents {
		s.Events = s.Events[n-maxEvents:]
	}
}
