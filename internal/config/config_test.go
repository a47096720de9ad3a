package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Years != 50 || cfg.Selection.RosterSize != 10 || cfg.World.Size != 100 || cfg.Arena.StartHP != 99 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reaping.yaml")
	data := `
seed: 77
years: 3
population:
  people_per_district: 40
world:
  terrain: noise
arena:
  max_turns: 500
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 77 || cfg.Years != 3 {
		t.Fatalf("seed/years = %d/%d", cfg.Seed, cfg.Years)
	}
	if cfg.Population.PeoplePerDistrict != 40 {
		t.Fatalf("people per district = %d", cfg.Population.PeoplePerDistrict)
	}
	if cfg.World.Terrain != "noise" || cfg.Arena.MaxTurns != 500 {
		t.Fatalf("world/arena not overlaid: %+v %+v", cfg.World, cfg.Arena)
	}
	// Untouched keys keep their defaults.
	if cfg.Population.MinMarriageAge != 18 || cfg.Arena.FightDamage != 10 {
		t.Fatal("defaults lost on load")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("years: [not, a, number]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REAPING_SEED", "12345")
	t.Setenv("REAPING_YEARS", "4")
	t.Setenv("REAPING_API_PORT", "8090")
	t.Setenv("REAPING_DB", "")
	t.Setenv("REAPING_PEOPLE_PER_DISTRICT", "lots")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Seed != 12345 || cfg.Years != 4 || cfg.Output.APIPort != 8090 {
		t.Fatalf("env not applied: seed=%d years=%d port=%d", cfg.Seed, cfg.Years, cfg.Output.APIPort)
	}
	if cfg.Output.Database != "reaping.db" {
		t.Fatalf("empty env value replaced database: %q", cfg.Output.Database)
	}
	if cfg.Population.PeoplePerDistrict != 1000 {
		t.Fatalf("unparseable env value applied: %d", cfg.Population.PeoplePerDistrict)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative years", func(c *Config) { c.Years = -1 }},
		{"inverted child-bearing window", func(c *Config) { c.Population.MinChildBearingAge = 50 }},
		{"empty roster", func(c *Config) { c.Selection.RosterSize = 0 }},
		{"inverted fight ages", func(c *Config) { c.Selection.MinFightAge = 90 }},
		{"three spawn groups", func(c *Config) { c.World.SpawnGroups = 3 }},
		{"unknown terrain", func(c *Config) { c.World.Terrain = "lava" }},
		{"zero shrink interval", func(c *Config) { c.Arena.ShrinkEvery = 0 }},
		{"zero mortality divisor", func(c *Config) { c.Population.MortalityDivisor = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("error = %v, want ErrInvalid", err)
			}
		})
	}
}
