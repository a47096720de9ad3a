package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/talgya/reaping/internal/config"
	"github.com/talgya/reaping/internal/engine"
)

func runSnapshot(t *testing.T) engine.Snapshot {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 11
	cfg.Years = 2
	cfg.Population.PeoplePerDistrict = 40
	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim.Now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }
	if err := sim.Run(); err != nil {
		t.Fatal(err)
	}
	return sim.Export()
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "reaping.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := runSnapshot(t)
	db := openTestDB(t)
	if err := db.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if got.Totals() != snap.Totals() {
		t.Fatalf("totals %+v, want %+v", got.Totals(), snap.Totals())
	}
	if len(got.People) != len(snap.People) {
		t.Fatalf("%d people, want %d", len(got.People), len(snap.People))
	}
	for i, p := range snap.People {
		q := got.People[i]
		if q.ID != p.ID || q.Name != p.Name || q.Sex != p.Sex || q.Age != p.Age || q.BornAt != p.BornAt || q.District != p.District {
			t.Fatalf("person %d: got %+v, want %+v", i, q, p)
		}
		if (q.DiedAt == nil) != (p.DiedAt == nil) || (p.DiedAt != nil && *q.DiedAt != *p.DiedAt) {
			t.Fatalf("person %d died at %v, want %v", p.ID, q.DiedAt, p.DiedAt)
		}
	}
	if len(got.Leaderboard) != len(snap.Leaderboard) {
		t.Fatalf("%d leaderboard entries, want %d", len(got.Leaderboard), len(snap.Leaderboard))
	}
	for i := range snap.Leaderboard {
		if got.Leaderboard[i] != snap.Leaderboard[i] {
			t.Fatalf("leaderboard %d = %+v, want %+v", i, got.Leaderboard[i], snap.Leaderboard[i])
		}
	}
	for district, records := range snap.DistrictCensus {
		loaded := got.DistrictCensus[district]
		if len(loaded) != len(records) {
			t.Fatalf("district %d: %d census records, want %d", district, len(loaded), len(records))
		}
		for i, c := range records {
			if (c.BestProfile == nil) != (loaded[i].BestProfile == nil) {
				t.Fatalf("district %d year %d: best profile presence differs", district, c.Year)
			}
			if c.BestProfile != nil && *c.BestProfile != *loaded[i].BestProfile {
				t.Fatalf("district %d year %d: profile %v, want %v", district, c.Year, *loaded[i].BestProfile, *c.BestProfile)
			}
		}
	}
	for district, families := range snap.Families {
		if len(got.Families[district]) != len(families) {
			t.Fatalf("district %d: %d families, want %d", district, len(got.Families[district]), len(families))
		}
	}
	if got.Metadata != snap.Metadata {
		t.Fatalf("metadata %+v, want %+v", got.Metadata, snap.Metadata)
	}
}

func TestCensusTotalsQuery(t *testing.T) {
	snap := runSnapshot(t)
	db := openTestDB(t)

	empty, err := db.CensusTotals()
	if err != nil {
		t.Fatal(err)
	}
	if empty != (engine.CensusTotals{}) {
		t.Fatalf("empty database totals = %+v", empty)
	}

	if err := db.SaveSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	totals, err := db.CensusTotals()
	if err != nil {
		t.Fatal(err)
	}
	if totals != snap.Totals() {
		t.Fatalf("sql totals %+v, snapshot totals %+v", totals, snap.Totals())
	}
}

func TestSaveSnapshotReplaces(t *testing.T) {
	snap := runSnapshot(t)
	db := openTestDB(t)
	for range 2 {
		if err := db.SaveSnapshot(snap); err != nil {
			t.Fatal(err)
		}
	}
	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.People) != len(snap.People) || len(got.Leaderboard) != len(snap.Leaderboard) {
		t.Fatal("second save duplicated rows")
	}
	if v, err := db.GetMeta("run_id"); err != nil || v != snap.Metadata.RunID {
		t.Fatalf("run_id meta = %q, %v", v, err)
	}
}

func TestEvents(t *testing.T) {
	db := openTestDB(t)
	events := []engine.Event{
		{Year: 1, Description: "first", Category: "family"},
		{Year: 2, Description: "second", Category: "contest"},
	}
	if err := db.SaveEvents(events); err != nil {
		t.Fatal(err)
	}
	got, err := db.RecentEvents(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != events[1] {
		t.Fatalf("recent events = %+v", got)
	}
}
