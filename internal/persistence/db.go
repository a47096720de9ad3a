// Package persistence stores exported run snapshots in SQLite.
package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/reaping/internal/behavior"
	"github.com/talgya/reaping/internal/engine"
	"github.com/talgya/reaping/internal/society"
)

// DB wraps a SQLite connection holding one run's snapshot.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY,
		district INTEGER NOT NULL,
		name TEXT NOT NULL,
		sex TEXT NOT NULL,
		age INTEGER NOT NULL,
		died_at INTEGER,
		born_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS families (
		id INTEGER PRIMARY KEY,
		district INTEGER NOT NULL,
		parent_male INTEGER NOT NULL,
		parent_female INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS family_children (
		family_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		child_id INTEGER NOT NULL,
		PRIMARY KEY (family_id, position)
	);

	CREATE TABLE IF NOT EXISTS census (
		district INTEGER NOT NULL,
		year INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		population INTEGER NOT NULL,
		nourishment REAL NOT NULL,
		best_profile TEXT,
		PRIMARY KEY (district, year)
	);

	CREATE TABLE IF NOT EXISTS leaderboard (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		district INTEGER NOT NULL,
		position INTEGER NOT NULL,
		year INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_people_district ON people(district);
	CREATE INDEX IF NOT EXISTS idx_leaderboard_year ON leaderboard(year);
	CREATE INDEX IF NOT EXISTS idx_events_year ON events(year);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type personRow struct {
	ID       society.PersonID `db:"id"`
	District int              `db:"district"`
	Name     string           `db:"name"`
	Sex      string           `db:"sex"`
	Age      int              `db:"age"`
	DiedAt   *int             `db:"died_at"`
	BornAt   int              `db:"born_at"`
}

type familyRow struct {
	ID           int64            `db:"id"`
	District     int              `db:"district"`
	ParentMale   society.PersonID `db:"parent_male"`
	ParentFemale society.PersonID `db:"parent_female"`
}

type childRow struct {
	FamilyID int64            `db:"family_id"`
	ChildID  society.PersonID `db:"child_id"`
}

type censusRow struct {
	District    int            `db:"district"`
	Year        int            `db:"year"`
	Births      int            `db:"births"`
	Deaths      int            `db:"deaths"`
	Population  int            `db:"population"`
	Nourishment float64        `db:"nourishment"`
	BestProfile sql.NullString `db:"best_profile"`
}

// SaveSnapshot replaces the stored snapshot with snap in one transaction.
func (db *DB) SaveSnapshot(snap engine.Snapshot) error {
	slog.Info("saving snapshot", "people", len(snap.People), "leaderboard", len(snap.Leaderboard))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"people", "families", "family_children", "census", "leaderboard"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	stmt, err := tx.Preparex(`INSERT INTO people
		(id, district, name, sex, age, died_at, born_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range snap.People {
		if _, err := stmt.Exec(int64(p.ID), p.District, p.Name, p.Sex.String(), p.Age, p.DiedAt, p.BornAt); err != nil {
			return fmt.Errorf("insert person %d: %w", p.ID, err)
		}
	}

	var familyID int64
	for district, families := range snap.Families {
		for _, f := range families {
			familyID++
			if _, err := tx.Exec(
				"INSERT INTO families (id, district, parent_male, parent_female) VALUES (?, ?, ?, ?)",
				familyID, district, int64(f.ParentMale), int64(f.ParentFemale),
			); err != nil {
				return fmt.Errorf("insert family: %w", err)
			}
			for i, child := range f.Children {
				if _, err := tx.Exec(
					"INSERT INTO family_children (family_id, position, child_id) VALUES (?, ?, ?)",
					familyID, i, int64(child),
				); err != nil {
					return fmt.Errorf("insert child %d: %w", child, err)
				}
			}
		}
	}

	for district, records := range snap.DistrictCensus {
		for _, c := range records {
			var best sql.NullString
			if c.BestProfile != nil {
				b, err := json.Marshal(c.BestProfile)
				if err != nil {
					return fmt.Errorf("encode profile: %w", err)
				}
				best = sql.NullString{String: string(b), Valid: true}
			}
			if _, err := tx.Exec(`INSERT INTO census
				(district, year, births, deaths, population, nourishment, best_profile)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				district, c.Year, c.Births, c.Deaths, c.Population, c.Nourishment, best,
			); err != nil {
				return fmt.Errorf("insert census %d/%d: %w", district, c.Year, err)
			}
		}
	}

	for _, e := range snap.Leaderboard {
		if _, err := tx.Exec(
			"INSERT INTO leaderboard (district, position, year) VALUES (?, ?, ?)",
			e.District, e.Position, e.Year,
		); err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
	}

	meta := map[string]string{
		"date":                snap.Metadata.Date,
		"years_simulated":     strconv.Itoa(snap.Metadata.YearsSimulated),
		"people_per_district": strconv.Itoa(snap.Metadata.PeoplePerDistrict),
		"seed":                strconv.FormatInt(snap.Metadata.Seed, 10),
		"run_id":              snap.Metadata.RunID,
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("snapshot saved")
	return nil
}

// LoadSnapshot reads the stored snapshot back.
func (db *DB) LoadSnapshot() (engine.Snapshot, error) {
	snap := engine.Snapshot{
		DistrictCensus: make(map[int][]society.Census),
		Families:       make(map[int][]engine.ExportedFamily),
		Leaderboard:    []engine.LeaderboardEntry{},
	}

	var people []personRow
	if err := db.conn.Select(&people, "SELECT id, district, name, sex, age, died_at, born_at FROM people ORDER BY id"); err != nil {
		return snap, fmt.Errorf("load people: %w", err)
	}
	for _, r := range people {
		var sex society.Sex
		if err := sex.UnmarshalText([]byte(r.Sex)); err != nil {
			return snap, fmt.Errorf("load person %d: %w", r.ID, err)
		}
		snap.People = append(snap.People, engine.ExportedPerson{
			ID:       r.ID,
			District: r.District,
			Name:     r.Name,
			Sex:      sex,
			Age:      r.Age,
			DiedAt:   r.DiedAt,
			BornAt:   r.BornAt,
		})
	}

	var children []childRow
	if err := db.conn.Select(&children, "SELECT family_id, child_id FROM family_children ORDER BY family_id, position"); err != nil {
		return snap, fmt.Errorf("load children: %w", err)
	}
	byFamily := make(map[int64][]society.PersonID)
	for _, c := range children {
		byFamily[c.FamilyID] = append(byFamily[c.FamilyID], c.ChildID)
	}

	var families []familyRow
	if err := db.conn.Select(&families, "SELECT id, district, parent_male, parent_female FROM families ORDER BY id"); err != nil {
		return snap, fmt.Errorf("load families: %w", err)
	}
	for _, f := range families {
		kids := byFamily[f.ID]
		if kids == nil {
			kids = []society.PersonID{}
		}
		snap.Families[f.District] = append(snap.Families[f.District], engine.ExportedFamily{
			ParentMale:   f.ParentMale,
			ParentFemale: f.ParentFemale,
			Children:     kids,
		})
	}

	var census []censusRow
	if err := db.conn.Select(&census, `SELECT district, year, births, deaths, population, nourishment, best_profile
		FROM census ORDER BY district, year`); err != nil {
		return snap, fmt.Errorf("load census: %w", err)
	}
	for _, r := range census {
		c := society.Census{
			Year:        r.Year,
			Births:      r.Births,
			Deaths:      r.Deaths,
			Population:  r.Population,
			Nourishment: r.Nourishment,
		}
		if r.BestProfile.Valid {
			var p behavior.Profile
			if err := json.Unmarshal([]byte(r.BestProfile.String), &p); err != nil {
				return snap, fmt.Errorf("decode profile %d/%d: %w", r.District, r.Year, err)
			}
			c.BestProfile = &p
		}
		snap.DistrictCensus[r.District] = append(snap.DistrictCensus[r.District], c)
	}

	if err := db.conn.Select(&snap.Leaderboard, "SELECT district, position, year FROM leaderboard ORDER BY id"); err != nil {
		return snap, fmt.Errorf("load leaderboard: %w", err)
	}

	meta, err := db.loadMeta()
	if err != nil {
		return snap, err
	}
	snap.Metadata = meta
	return snap, nil
}

func (db *DB) loadMeta() (engine.Metadata, error) {
	var m engine.Metadata
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := db.conn.Select(&rows, "SELECT key, value FROM run_meta"); err != nil {
		return m, fmt.Errorf("load meta: %w", err)
	}
	for _, r := range rows {
		var err error
		switch r.Key {
		case "date":
			m.Date = r.Value
		case "run_id":
			m.RunID = r.Value
		case "years_simulated":
			m.YearsSimulated, err = strconv.Atoi(r.Value)
		case "people_per_district":
			m.PeoplePerDistrict, err = strconv.Atoi(r.Value)
		case "seed":
			m.Seed, err = strconv.ParseInt(r.Value, 10, 64)
		}
		if err != nil {
			return m, fmt.Errorf("meta %s: %w", r.Key, err)
		}
	}
	return m, nil
}

// CensusTotals sums the stored census directly in SQL: births and deaths over
// every record, population from each district's latest year.
func (db *DB) CensusTotals() (engine.CensusTotals, error) {
	var t engine.CensusTotals
	err := db.conn.Get(&t, `
		SELECT
			COALESCE(SUM(births), 0) AS births,
			COALESCE(SUM(deaths), 0) AS deaths,
			COALESCE((
				SELECT SUM(c.population) FROM census c
				WHERE c.year = (SELECT MAX(year) FROM census WHERE district = c.district)
			), 0) AS population
		FROM census`)
	if err != nil {
		return t, fmt.Errorf("census totals: %w", err)
	}
	return t, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (year, description, category) VALUES (?, ?, ?)",
			e.Year, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT year, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// GetMeta retrieves a run metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}
