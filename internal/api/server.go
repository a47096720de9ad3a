// Package api serves a finished run's snapshot over HTTP for the dashboard.
// Every endpoint is a read-only GET.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/reaping/internal/engine"
	"github.com/talgya/reaping/internal/persistence"
	"github.com/talgya/reaping/internal/society"
)

// Server serves the most recently published snapshot.
type Server struct {
	DB   *persistence.DB // Optional; totals come from SQL when set
	Port int

	mu     sync.RWMutex
	snap   engine.Snapshot
	events []engine.Event
	ready  bool
}

// Publish replaces the served snapshot and events.
func (s *Server) Publish(snap engine.Snapshot, events []engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.events = events
	s.ready = true
}

func (s *Server) current() (engine.Snapshot, []engine.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.events, s.ready
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	exportLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/people", s.requireSnapshot(s.handlePeople))
	mux.HandleFunc("/api/v1/census", s.requireSnapshot(s.handleCensus))
	mux.HandleFunc("/api/v1/totals", s.requireSnapshot(s.handleTotals))
	mux.HandleFunc("/api/v1/leaderboard", s.requireSnapshot(s.handleLeaderboard))
	mux.HandleFunc("/api/v1/families", s.requireSnapshot(s.handleFamilies))
	mux.HandleFunc("/api/v1/events", s.requireSnapshot(s.handleEvents))
	mux.HandleFunc("/api/v1/export", RateLimitMiddleware(exportLimiter, s.requireSnapshot(s.handleExport)))

	return corsMiddleware(getOnly(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", srv.Addr)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	slog.Info("HTTP API stopped")
	return nil
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSnapshot answers 503 until a snapshot has been published.
func (s *Server) requireSnapshot(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.current(); !ok {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, events, ok := s.current()
	if !ok {
		writeJSON(w, map[string]any{"name": "Reaping", "ready": false})
		return
	}
	living := 0
	for _, p := range snap.People {
		if p.DiedAt == nil {
			living++
		}
	}
	writeJSON(w, map[string]any{
		"name":                "Reaping",
		"ready":               true,
		"run_id":              snap.Metadata.RunID,
		"seed":                snap.Metadata.Seed,
		"date":                snap.Metadata.Date,
		"years_simulated":     snap.Metadata.YearsSimulated,
		"people_per_district": snap.Metadata.PeoplePerDistrict,
		"people":              len(snap.People),
		"living":              living,
		"districts":           len(snap.DistrictCensus),
		"leaderboard_entries": len(snap.Leaderboard),
		"events":              len(events),
	})
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	snap, _, _ := s.current()
	q := r.URL.Query()

	district, ok := intParam(w, q.Get("district"), "district")
	if !ok {
		return
	}
	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}
	alive := q.Get("alive")

	result := []engine.ExportedPerson{}
	for _, p := range snap.People {
		if district != 0 && p.District != district {
			continue
		}
		if alive == "true" && p.DiedAt != nil || alive == "false" && p.DiedAt == nil {
			continue
		}
		result = append(result, p)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleCensus(w http.ResponseWriter, r *http.Request) {
	snap, _, _ := s.current()
	district, ok := intParam(w, r.URL.Query().Get("district"), "district")
	if !ok {
		return
	}
	if district == 0 {
		writeJSON(w, snap.DistrictCensus)
		return
	}
	records, found := snap.DistrictCensus[district]
	if !found {
		http.Error(w, "unknown district", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"district": district,
		"name":     society.DistrictType(district).Industry(),
		"census":   records,
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		totals, err := s.DB.CensusTotals()
		if err != nil {
			slog.Error("census totals query failed", "error", err)
			http.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, totals)
		return
	}
	snap, _, _ := s.current()
	writeJSON(w, snap.Totals())
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap, _, _ := s.current()
	year, ok := intParam(w, r.URL.Query().Get("year"), "year")
	if !ok {
		return
	}
	result := []engine.LeaderboardEntry{}
	for _, e := range snap.Leaderboard {
		if year == 0 || e.Year == year {
			result = append(result, e)
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	snap, _, _ := s.current()
	district, ok := intParam(w, r.URL.Query().Get("district"), "district")
	if !ok {
		return
	}
	if district == 0 {
		writeJSON(w, snap.Families)
		return
	}
	families, found := snap.Families[district]
	if !found {
		http.Error(w, "unknown district", http.StatusNotFound)
		return
	}
	writeJSON(w, families)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	_, events, _ := s.current()
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	if category := r.URL.Query().Get("category"); category != "" {
		var filtered []engine.Event
		for _, e := range events {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	result := events[start:]
	if result == nil {
		result = []engine.Event{}
	}
	writeJSON(w, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, _, _ := s.current()
	writeJSON(w, snap)
}

// intParam parses an optional non-negative integer query value; empty means 0.
// On failure it writes a 400 and returns false.
func intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		http.Error(w, fmt.Sprintf("bad %s %q", name, raw), http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
