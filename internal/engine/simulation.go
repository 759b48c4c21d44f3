// Simulation ties the sector and the diplomacy brains together and runs them
// each step.
package engine

import (
	"log/slog"
	"sync"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/sector"
)

var _ diplomacy.World = (*sector.Sector)(nil)

// MaxRecentDecisions bounds the decision history kept in memory.
const MaxRecentDecisions = 200

// Simulation holds the world and the brains that act in it. Advance and the
// negotiation answers take the write lock; readers outside the engine loop go
// through Read.
type Simulation struct {
	mu sync.RWMutex

	Sector    *sector.Sector
	Diplomacy *diplomacy.Manager

	Recent []*diplomacy.Decision // newest last
	Stats  SimStats
}

// SimStats counts what the brains have done this session.
type SimStats struct {
	Wars       int `json:"wars"`
	Ceasefires int `json:"ceasefires"`
	Treaties   int `json:"treaties"`
	Offers     int `json:"offers"`
	Events     int `json:"events"`
}

// NewSimulation wires a sector to a diplomacy manager.
func NewSimulation(s *sector.Sector, m *diplomacy.Manager) *Simulation {
	return &Simulation{Sector: s, Diplomacy: m}
}

// Advance runs one step: the sector first, then every brain.
func (s *Simulation) Advance(days float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Sector.Advance(days)
	decisions, err := s.Diplomacy.Advance(days)
	if err != nil {
		return err
	}
	for _, d := range decisions {
		s.record(d)
	}
	return nil
}

// Read runs fn while holding the read lock.
func (s *Simulation) Read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Snapshot copies the persistable state of the sector and the brains.
func (s *Simulation) Snapshot() (sector.State, diplomacy.ManagerState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Sector.State(), s.Diplomacy.State()
}

// AnswerNegotiation accepts or rejects a pending offer to the player.
func (s *Simulation) AnswerNegotiation(id string, accept bool) (*diplomacy.CeasefireNegotiation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if accept {
		err = s.Diplomacy.AcceptNegotiation(id)
	} else {
		err = s.Diplomacy.RejectNegotiation(id)
	}
	if err != nil {
		return nil, err
	}
	n, err := s.Diplomacy.Negotiation(id)
	if err != nil {
		return nil, err
	}
	cp := *n
	return &cp, nil
}

func (s *Simulation) record(d *diplomacy.Decision) {
	switch {
	case d.Kind == diplomacy.DecisionWar:
		s.Stats.Wars++
	case d.Negotiation != nil:
		s.Stats.Offers++
	case d.Kind == diplomacy.DecisionPeace && d.Peace.PeaceTreaty:
		s.Stats.Treaties++
	case d.Kind == diplomacy.DecisionPeace:
		s.Stats.Ceasefires++
	case d.Kind == diplomacy.DecisionEvent:
		s.Stats.Events++
	}

	s.Recent = append(s.Recent, d)
	if over := len(s.Recent) - MaxRecentDecisions; over > 0 {
		s.Recent = append([]*diplomacy.Decision(nil), s.Recent[over:]...)
	}
	slog.Debug("decision recorded",
		"day", s.Sector.Day,
		"kind", d.Kind.String(),
		"owner", d.Owner,
		"target", d.Target,
	)
}

// LogSummary writes the daily state of the sector at info level.
func (s *Simulation) LogSummary() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := s.Sector.LiveFactions()
	wars := 0
	for i, a := range live {
		for _, b := range live[i+1:] {
			if s.Sector.IsHostileTo(a, b) {
				wars++
			}
		}
	}
	slog.Info("sector summary",
		"date", SimTime(s.Sector.Day),
		"factions", len(live),
		"wars", wars,
		"negotiations", len(s.Diplomacy.Negotiations()),
		"declared", s.Stats.Wars,
		"ceasefires", s.Stats.Ceasefires,
		"treaties", s.Stats.Treaties,
	)
}
