// Package api provides the HTTP API for observing the sector.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the player's answers to offers).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/engine"
	"github.com/talgya/sector-diplomacy/internal/persistence"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// Server serves the sector state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	DB       *persistence.DB // optional; events fall back to the in-memory log
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	answerLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/factions", s.handleFactions)
	mux.HandleFunc("GET /api/v1/faction/{id}", s.handleFactionDetail)
	mux.HandleFunc("GET /api/v1/negotiations", s.handleNegotiations)
	mux.HandleFunc("GET /api/v1/decisions", s.handleDecisions)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	mux.HandleFunc("POST /api/v1/negotiation/{id}/{answer}",
		s.adminOnly(RateLimitMiddleware(answerLimiter, s.handleAnswer)))

	return corsMiddleware(mux)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
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
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no SECTORSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.Read(func() {
		sec := s.Sim.Sector
		live := sec.LiveFactions()
		wars := 0
		for i, a := range live {
			for _, b := range live[i+1:] {
				if sec.IsHostileTo(a, b) {
					wars++
				}
			}
		}
		status = map[string]any{
			"day":             sec.Day,
			"sim_time":        engine.SimTime(sec.Day),
			"factions":        len(live),
			"wars":            wars,
			"days_since_war":  sec.DaysSinceLastWar(),
			"invasions":       len(sec.OngoingInvasions()),
			"negotiations":    len(s.Sim.Diplomacy.Negotiations()),
			"player_faction":  sec.PlayerFaction(),
			"decision_totals": s.Sim.Stats,
		}
	})
	writeJSON(w, status)
}

type factionSummary struct {
	ID        social.FactionID   `json:"id"`
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	Markets   int                `json:"markets"`
	Size      int                `json:"total_size"`
	Weariness float64            `json:"war_weariness"`
	Enemies   []social.FactionID `json:"enemies"`
	Strength  float64            `json:"strength"`
}

func (s *Server) handleFactions(w http.ResponseWriter, r *http.Request) {
	var out []factionSummary
	s.Sim.Read(func() {
		sec := s.Sim.Sector
		markets := sec.Markets()
		for _, id := range sec.LiveFactions() {
			f, _ := sec.Faction(id)
			sum := factionSummary{
				ID:        id,
				Name:      f.Name,
				Kind:      f.Kind.String(),
				Weariness: sec.WarWeariness(id, false),
				Enemies:   sec.FactionsAtWarWith(id, social.WarQuery{IncludePirates: true, IncludeRestricted: true}),
			}
			for _, m := range markets {
				if m.Owner == id {
					sum.Markets++
					sum.Size += m.Size
				}
			}
			if b, ok := s.Sim.Diplomacy.Brain(id); ok {
				sum.Strength, _ = b.Strength()
			}
			out = append(out, sum)
		}
	})
	writeJSON(w, out)
}

type dispositionView struct {
	Rival     social.FactionID               `json:"rival"`
	Value     float64                        `json:"value"`
	Relation  float64                        `json:"relation"`
	Modifiers map[diplomacy.Modifier]float64 `json:"modifiers"`
}

func (s *Server) handleFactionDetail(w http.ResponseWriter, r *http.Request) {
	id := social.FactionID(r.PathValue("id"))

	var detail map[string]any
	var found bool
	s.Sim.Read(func() {
		sec := s.Sim.Sector
		f, ok := sec.Faction(id)
		if !ok {
			return
		}
		found = true
		detail = map[string]any{
			"id":         id,
			"name":       f.Name,
			"alive":      sec.IsFactionAlive(id),
			"alignments": f.Alignments,
			"traits":     f.Traits,
		}

		b, ok := s.Sim.Diplomacy.Brain(id)
		if !ok {
			return
		}
		ours, enemies := b.Strength()
		detail["strength"] = ours
		detail["enemy_strength"] = enemies
		detail["enemies"] = b.Enemies()
		detail["ceasefires"] = b.Ceasefires()
		detail["revanchism"] = b.Revanchism()

		var disps []dispositionView
		for _, rival := range sec.LiveFactions() {
			d, ok := b.Disposition(rival)
			if !ok {
				continue
			}
			disps = append(disps, dispositionView{
				Rival:     rival,
				Value:     d.Value(),
				Relation:  sec.Relationship(id, rival),
				Modifiers: d.Modifiers(),
			})
		}
		sort.Slice(disps, func(i, j int) bool { return disps[i].Value < disps[j].Value })
		detail["dispositions"] = disps
	})

	if !found {
		http.Error(w, "faction not found", http.StatusNotFound)
		return
	}
	writeJSON(w, detail)
}

func (s *Server) handleNegotiations(w http.ResponseWriter, r *http.Request) {
	var out []diplomacy.CeasefireNegotiation
	s.Sim.Read(func() {
		for _, n := range s.Sim.Diplomacy.Negotiations() {
			out = append(out, *n)
		}
	})
	writeJSON(w, out)
}

type decisionView struct {
	Kind     string           `json:"kind"`
	Owner    social.FactionID `json:"owner"`
	Target   social.FactionID `json:"target"`
	EventID  string           `json:"event_id,omitempty"`
	Delta    float64          `json:"delta"`
	Treaty   bool             `json:"peace_treaty,omitempty"`
	Proposal string           `json:"negotiation_id,omitempty"`
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	var out []decisionView
	s.Sim.Read(func() {
		recent := s.Sim.Recent
		if len(recent) > limit {
			recent = recent[len(recent)-limit:]
		}
		for i := len(recent) - 1; i >= 0; i-- {
			d := recent[i]
			v := decisionView{
				Kind:    d.Kind.String(),
				Owner:   d.Owner,
				Target:  d.Target,
				EventID: d.Result.ID,
				Delta:   d.Result.Delta,
			}
			if d.Peace != nil {
				v.Treaty = d.Peace.PeaceTreaty
			}
			if d.Negotiation != nil {
				v.Proposal = d.Negotiation.ID
			}
			out = append(out, v)
		}
	})
	writeJSON(w, out)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	faction := social.FactionID(r.URL.Query().Get("faction"))

	if s.DB != nil {
		var events []sector.Event
		var err error
		if faction != "" {
			events, err = s.DB.FactionEvents(faction, limit)
		} else {
			events, err = s.DB.RecentEvents(limit)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
		return
	}

	var events []sector.Event
	s.Sim.Read(func() {
		log := s.Sim.Sector.Events(0)
		for i := len(log) - 1; i >= 0 && len(events) < limit; i-- {
			e := log[i]
			if faction == "" || e.A == faction || e.B == faction {
				events = append(events, e)
			}
		}
	})
	writeJSON(w, events)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var accept bool
	switch r.PathValue("answer") {
	case "accept":
		accept = true
	case "reject":
	default:
		http.Error(w, "answer must be accept or reject", http.StatusBadRequest)
		return
	}

	n, err := s.Sim.AnswerNegotiation(r.PathValue("id"), accept)
	switch {
	case errors.Is(err, diplomacy.ErrUnknownNegotiation):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, diplomacy.ErrNegotiationResolved):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("negotiation answered", "id", n.ID, "proposer", n.Proposer, "state", n.State.String())
	writeJSON(w, n)
}

func queryInt(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
