// Diplomacy events: the catalog of flavor events and how each kind of event
// changes relationships.
package sector

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// Relationship values set by the scripted events.
const (
	WarRelation         = -0.6
	CeasefireRelation   = -0.3
	PeaceTreatyRelation = -0.05
)

// Event is one logged diplomacy event.
type Event struct {
	ID          string           `json:"id"`
	Day         float64          `json:"day"`
	Kind        social.EventKind `json:"kind"`
	Name        string           `json:"name"`
	A           social.FactionID `json:"a"`
	B           social.FactionID `json:"b"`
	Delta       float64          `json:"delta"`
	Description string           `json:"description"`
}

type eventTemplate struct {
	name    string
	min     float64
	max     float64
	pattern string // two %s verbs: a, b
}

func (t eventTemplate) positive() bool { return t.min > 0 }

// flavorEvents are drawn for random events. Deltas are on the [-1, 1] scale.
var flavorEvents = []eventTemplate{
	{"trade_agreement", 0.04, 0.08, "%s and %s sign a trade agreement"},
	{"joint_patrol", 0.03, 0.06, "%s and %s run a joint patrol against raiders"},
	{"cultural_exchange", 0.02, 0.05, "%s hosts a cultural delegation from %s"},
	{"humanitarian_aid", 0.04, 0.07, "%s sends relief convoys to %s"},
	{"tariff_dispute", -0.06, -0.03, "%s raises tariffs on goods from %s"},
	{"border_incident", -0.08, -0.04, "%s patrols fire on %s traders"},
	{"espionage_scandal", -0.07, -0.04, "%s agents are caught spying on %s"},
	{"diplomatic_insult", -0.05, -0.02, "%s's envoy insults the %s court"},
}

// CreateDiplomacyEvent enacts an event between a and b. War sets the
// relationship; ceasefire and peace treaty raise it to at least their level;
// random events shift it by a drawn amount.
func (s *Sector) CreateDiplomacyEvent(a, b social.FactionID, kind social.EventKind, params social.EventParams) (social.EventResult, error) {
	if !s.IsFactionAlive(a) || !s.IsFactionAlive(b) || a == b {
		return social.EventResult{}, fmt.Errorf("event %q between %s and %s: %w", kind, a, b, ErrUnknownFaction)
	}

	ev := Event{ID: uuid.NewString(), Day: s.Day, Kind: kind, A: a, B: b}
	switch kind {
	case social.EventDeclareWar:
		ev.Name = "declare_war"
		ev.Delta = s.setRelationTo(a, b, WarRelation)
		ev.Description = fmt.Sprintf("%s declares war on %s", s.name(a), s.name(b))
		s.LastWarDay = s.Day
	case social.EventCeasefire:
		ev.Name = "ceasefire"
		ev.Delta = s.raiseRelationTo(a, b, CeasefireRelation)
		ev.Description = fmt.Sprintf("%s and %s agree to a ceasefire", s.name(a), s.name(b))
		s.cancelInvasions(a, b)
	case social.EventPeaceTreaty:
		ev.Name = "peace_treaty"
		ev.Delta = s.raiseRelationTo(a, b, PeaceTreatyRelation)
		ev.Description = fmt.Sprintf("%s and %s sign a peace treaty", s.name(a), s.name(b))
		s.cancelInvasions(a, b)
	case social.EventRandom:
		t, ok := s.pickFlavor(params)
		if !ok {
			return social.EventResult{}, fmt.Errorf("no event matches %+v", params)
		}
		ev.Name = t.name
		ev.Delta = s.AdjustRelation(a, b, entropy.Range(s.rng, t.min, t.max))
		ev.Description = fmt.Sprintf(t.pattern, s.name(a), s.name(b))
	default:
		return social.EventResult{}, fmt.Errorf("unknown event kind %q", kind)
	}

	s.log = append(s.log, ev)
	if over := len(s.log) - MaxLoggedEvents; over > 0 {
		s.log = append([]Event(nil), s.log[over:]...)
	}
	slog.Info("diplomacy event",
		"event", ev.Name,
		"a", a,
		"b", b,
		"delta", ev.Delta,
		"day", s.Day,
	)
	return social.EventResult{ID: ev.ID, Kind: kind, Name: ev.Name, Delta: ev.Delta}, nil
}

// setRelationTo sets the relationship and returns the change.
func (s *Sector) setRelationTo(a, b social.FactionID, value float64) float64 {
	before := s.Relationship(a, b)
	s.SetRelation(a, b, value)
	return s.Relationship(a, b) - before
}

// raiseRelationTo lifts the relationship to value if it is lower and returns
// the change.
func (s *Sector) raiseRelationTo(a, b social.FactionID, value float64) float64 {
	return s.setRelationTo(a, b, math.Max(s.Relationship(a, b), value))
}

func (s *Sector) pickFlavor(params social.EventParams) (eventTemplate, bool) {
	var picker entropy.Picker[eventTemplate]
	for _, t := range flavorEvents {
		if params.OnlyPositive && !t.positive() {
			continue
		}
		if params.OnlyNegative && t.positive() {
			continue
		}
		picker.Add(t, 1)
	}
	return picker.Pick(s.rng)
}

func (s *Sector) cancelInvasions(a, b social.FactionID) {
	kept := s.invasions[:0]
	for _, inv := range s.invasions {
		if pairOf(inv.Attacker, inv.Defender) == pairOf(a, b) {
			continue
		}
		kept = append(kept, inv)
	}
	s.invasions = kept
}

func (s *Sector) name(id social.FactionID) string {
	if f, ok := s.factions[id]; ok && f.Name != "" {
		return f.Name
	}
	return string(id)
}

// Events returns the most recent logged events, newest last. n <= 0 returns all.
func (s *Sector) Events(n int) []Event {
	start := 0
	if n > 0 && len(s.log) > n {
		start = len(s.log) - n
	}
	return append([]Event(nil), s.log[start:]...)
}
