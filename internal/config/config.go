// Package config holds run settings: defaults, an optional YAML file on top,
// then REAPING_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete run configuration.
type Config struct {
	Seed     int64  `yaml:"seed"`
	Years    int    `yaml:"years"`
	LogLevel string `yaml:"log_level"`

	Population PopulationConfig `yaml:"population"`
	Selection  SelectionConfig  `yaml:"selection"`
	World      WorldConfig      `yaml:"world"`
	Arena      ArenaConfig      `yaml:"arena"`
	Profile    ProfileConfig    `yaml:"profile"`
	Output     OutputConfig     `yaml:"output"`
}

// PopulationConfig drives the founders and the yearly demography.
type PopulationConfig struct {
	PeoplePerDistrict  int     `yaml:"people_per_district"`
	MinMarriageAge     int     `yaml:"min_marriage_age"`
	MinChildBearingAge int     `yaml:"min_child_bearing_age"`
	MaxChildBearingAge int     `yaml:"max_child_bearing_age"`
	MaxLivingChildren  int     `yaml:"max_living_children"`
	MortalityDivisor   int     `yaml:"mortality_divisor"` // One death draw per this many living
	Nourishment        float64 `yaml:"nourishment"`
}

// SelectionConfig drives the yearly reaping.
type SelectionConfig struct {
	MinFightAge int     `yaml:"min_fight_age"` // Exclusive
	MaxFightAge int     `yaml:"max_fight_age"` // Exclusive
	RosterSize  int     `yaml:"roster_size"`
	MinSexShare float64 `yaml:"min_sex_share"`
}

// WorldConfig drives arena generation. A non-empty Layout names a literal
// layout file used instead of generation.
type WorldConfig struct {
	Size             int    `yaml:"size"`
	SpawnRingRadius  int    `yaml:"spawn_ring_radius"`
	SpawnGroups      int    `yaml:"spawn_groups"`
	SpawnGroupOffset int    `yaml:"spawn_group_offset"`
	Terrain          string `yaml:"terrain"` // uniform | noise
	Layout           string `yaml:"layout"`
}

// ArenaConfig holds the contest constants.
type ArenaConfig struct {
	StartHP         int     `yaml:"start_hp"`
	FightDamage     int     `yaml:"fight_damage"`
	LootHP          int     `yaml:"loot_hp"`
	HideHeal        int     `yaml:"hide_heal"`
	ShrinkAfter     int     `yaml:"shrink_after"`
	ShrinkEvery     int     `yaml:"shrink_every"`
	ShrinkLead      int     `yaml:"shrink_lead"`
	RedZoneDelay    int     `yaml:"red_zone_delay"`
	ProximityRadius float64 `yaml:"proximity_radius"`
	GateMultiplier  float64 `yaml:"gate_multiplier"`
	MaxTurns        int     `yaml:"max_turns"`
}

// ProfileConfig tunes behavior profile drift. The allowed drift from a
// district's best profile is the number of years left, floored at
// MinDifference.
type ProfileConfig struct {
	MinDifference int `yaml:"min_difference"`
}

// OutputConfig says where results go. Empty paths and a zero port disable
// the corresponding sink.
type OutputConfig struct {
	Database string `yaml:"database"`
	Export   string `yaml:"export"`
	APIPort  int    `yaml:"api_port"`
}

// Default returns the standard configuration: twelve districts of a thousand
// founders, fifty years, ten combatants per district.
func Default() Config {
	return Config{
		Seed:     1,
		Years:    50,
		LogLevel: "info",
		Population: PopulationConfig{
			PeoplePerDistrict:  1000,
			MinMarriageAge:     18,
			MinChildBearingAge: 18,
			MaxChildBearingAge: 40,
			MaxLivingChildren:  5,
			MortalityDivisor:   250,
			Nourishment:        50,
		},
		Selection: SelectionConfig{
			MinFightAge: 14,
			MaxFightAge: 84,
			RosterSize:  10,
			MinSexShare: 0.25,
		},
		World: WorldConfig{
			Size:             100,
			SpawnRingRadius:  10,
			SpawnGroups:      4,
			SpawnGroupOffset: 20,
			Terrain:          "uniform",
		},
		Arena: ArenaConfig{
			StartHP:         99,
			FightDamage:     10,
			LootHP:          150,
			HideHeal:        10,
			ShrinkAfter:     100,
			ShrinkEvery:     15,
			ShrinkLead:      95,
			RedZoneDelay:    10,
			ProximityRadius: 3,
			GateMultiplier:  6.5,
			MaxTurns:        1000,
		},
		Output: OutputConfig{
			Database: "reaping.db",
			Export:   "export.json",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from REAPING_* environment variables.
// Unparseable values are logged and ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("REAPING_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = n
		} else {
			slog.Warn("ignoring REAPING_SEED", "value", v, "error", err)
		}
	}
	c.Years = envIntOrDefault("REAPING_YEARS", c.Years)
	c.LogLevel = envOrDefault("REAPING_LOG_LEVEL", c.LogLevel)
	c.Population.PeoplePerDistrict = envIntOrDefault("REAPING_PEOPLE_PER_DISTRICT", c.Population.PeoplePerDistrict)
	c.World.Terrain = envOrDefault("REAPING_TERRAIN", c.World.Terrain)
	c.World.Layout = envOrDefault("REAPING_LAYOUT", c.World.Layout)
	c.Output.Database = envOrDefault("REAPING_DB", c.Output.Database)
	c.Output.Export = envOrDefault("REAPING_EXPORT", c.Output.Export)
	c.Output.APIPort = envIntOrDefault("REAPING_API_PORT", c.Output.APIPort)
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, msg string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(msg, args...))
		}
	}

	p, s, w, a := c.Population, c.Selection, c.World, c.Arena
	check(c.Years >= 0, "years must not be negative, got %d", c.Years)
	check(p.PeoplePerDistrict >= 0, "population.people_per_district must not be negative")
	check(p.MinChildBearingAge <= p.MaxChildBearingAge,
		"population child-bearing window inverted: %d > %d", p.MinChildBearingAge, p.MaxChildBearingAge)
	check(p.MaxLivingChildren >= 0, "population.max_living_children must not be negative")
	check(p.MortalityDivisor > 0, "population.mortality_divisor must be positive")
	check(p.Nourishment >= 0 && p.Nourishment <= 100, "population.nourishment must be in [0,100]")
	check(s.MinFightAge < s.MaxFightAge, "selection fight ages inverted: %d >= %d", s.MinFightAge, s.MaxFightAge)
	check(s.RosterSize >= 1, "selection.roster_size must be at least 1")
	check(s.MinSexShare >= 0 && s.MinSexShare <= 0.5, "selection.min_sex_share must be in [0,0.5]")
	check(w.Size > 0, "world.size must be positive")
	check(w.SpawnGroups == 1 || w.SpawnGroups == 4, "world.spawn_groups must be 1 or 4, got %d", w.SpawnGroups)
	check(w.Terrain == "uniform" || w.Terrain == "noise", "world.terrain must be uniform or noise, got %q", w.Terrain)
	check(a.StartHP > 0, "arena.start_hp must be positive")
	check(a.FightDamage > 0, "arena.fight_damage must be positive")
	check(a.ShrinkEvery > 0, "arena.shrink_every must be positive")
	check(a.MaxTurns > 0, "arena.max_turns must be positive")
	check(c.Profile.MinDifference >= 0, "profile.min_difference must not be negative")
	check(c.Output.APIPort >= 0 && c.Output.APIPort < 65536, "output.api_port out of range")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring non-integer environment value", "key", key, "value", v)
	}
	return defaultVal
}
