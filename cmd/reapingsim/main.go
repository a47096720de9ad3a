// Command reapingsim runs the district demography simulation with its yearly
// arena contest, then exports the results.
//
// Settings come from the YAML file named by REAPING_CONFIG (optional) and
// REAPING_* environment overrides.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/reaping/internal/api"
	"github.com/talgya/reaping/internal/config"
	"github.com/talgya/reaping/internal/engine"
	"github.com/talgya/reaping/internal/persistence"
)

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if path := os.Getenv("REAPING_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Reaping simulation",
		"seed", cfg.Seed,
		"years", cfg.Years,
		"people_per_district", humanize.Comma(int64(cfg.Population.PeoplePerDistrict)),
		"terrain", cfg.World.Terrain,
	)

	// ── Simulation ────────────────────────────────────────────────────
	sim, err := engine.NewSimulation(cfg)
	if err != nil {
		return err
	}
	slog.Info("founders spawned", "run_id", sim.RunID, "people", humanize.Comma(int64(sim.Pop.PeopleCount())))

	start := time.Now()
	if err := sim.Run(); err != nil {
		return err
	}
	snap := sim.Export()
	totals := snap.Totals()
	slog.Info("simulation complete",
		"years", sim.Year,
		"births", humanize.Comma(int64(totals.Births)),
		"deaths", humanize.Comma(int64(totals.Deaths)),
		"population", humanize.Comma(int64(totals.Population)),
		"contests", humanize.Comma(int64(len(snap.Leaderboard))),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	// ── Export ────────────────────────────────────────────────────────
	if path := cfg.Output.Export; path != "" {
		if err := ensureDir(path); err != nil {
			return err
		}
		if err := snap.WriteFile(path); err != nil {
			return err
		}
		if info, err := os.Stat(path); err == nil {
			slog.Info("export written", "path", path, "size", humanize.Bytes(uint64(info.Size())))
		}
	}

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if path := cfg.Output.Database; path != "" {
		if err := ensureDir(path); err != nil {
			return err
		}
		db, err = persistence.Open(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.SaveSnapshot(snap); err != nil {
			return err
		}
		if err := db.SaveEvents(sim.Events); err != nil {
			return err
		}
		slog.Info("database saved", "path", path)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Output.APIPort == 0 {
		return nil
	}
	srv := &api.Server{DB: db, Port: cfg.Output.APIPort}
	srv.Publish(snap, sim.Events)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	slog.Info("serving results; interrupt to stop", "port", cfg.Output.APIPort)
	return srv.ListenAndServe(ctx)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
