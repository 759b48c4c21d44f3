package diplomacy

import (
	"fmt"
	"sort"

	"github.com/talgya/sector-diplomacy/internal/social"
)

type eventCall struct {
	a, b   social.FactionID
	kind   social.EventKind
	params social.EventParams
}

// fakeWorld is a hand-driven World. Relationships are symmetric and a
// relationship at or below social.HostileThreshold means war.
type fakeWorld struct {
	factions    map[social.FactionID]*social.Faction
	dead        map[social.FactionID]bool
	disallowed  map[social.FactionID]bool
	alternate   map[social.FactionID]bool
	relations   map[[2]social.FactionID]float64
	alliances   [][]social.FactionID
	markets     []social.Market
	dominance   map[social.FactionID]float64
	competition float64
	weariness   map[social.FactionID]float64
	sinceWar    float64
	invasions   []social.Invasion
	player      social.FactionID
	commission  social.FactionID
	level       int
	hard        bool

	eventDelta float64
	eventErr   error
	events     []eventCall
}

func newFakeWorld(factions ...*social.Faction) *fakeWorld {
	w := &fakeWorld{
		factions:   make(map[social.FactionID]*social.Faction),
		dead:       make(map[social.FactionID]bool),
		disallowed: make(map[social.FactionID]bool),
		alternate:  make(map[social.FactionID]bool),
		relations:  make(map[[2]social.FactionID]float64),
		dominance:  make(map[social.FactionID]float64),
		weariness:  make(map[social.FactionID]float64),
		sinceWar:   1000,
		player:     social.PlayerFactionID,
	}
	for _, f := range factions {
		w.factions[f.ID] = f
	}
	return w
}

func standard(id social.FactionID, traits ...social.Trait) *social.Faction {
	return &social.Faction{ID: id, Name: string(id), Kind: social.KindStandard, Traits: social.NewTraitSet(traits...)}
}

func relKey(a, b social.FactionID) [2]social.FactionID {
	if b < a {
		a, b = b, a
	}
	return [2]social.FactionID{a, b}
}

func (w *fakeWorld) setRelation(a, b social.FactionID, v float64) { w.relations[relKey(a, b)] = v }

func (w *fakeWorld) market(owner, original social.FactionID, size int) {
	id := social.MarketID(fmt.Sprintf("m%d", len(w.markets)))
	w.markets = append(w.markets, social.Market{ID: id, Owner: owner, OriginalOwner: original, Size: size})
}

func (w *fakeWorld) IsFactionAlive(id social.FactionID) bool {
	_, ok := w.factions[id]
	return ok && !w.dead[id]
}

func (w *fakeWorld) LiveFactions() []social.FactionID {
	var out []social.FactionID
	for id := range w.factions {
		if w.IsFactionAlive(id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *fakeWorld) Faction(id social.FactionID) (*social.Faction, bool) {
	f, ok := w.factions[id]
	return f, ok
}

func (w *fakeWorld) IsDisallowed(id social.FactionID) bool { return w.disallowed[id] }
func (w *fakeWorld) HasAlternateController(id social.FactionID) bool { return w.alternate[id] }

func (w *fakeWorld) Relationship(a, b social.FactionID) float64 {
	if a == b {
		return 1
	}
	return w.relations[relKey(a, b)]
}

func (w *fakeWorld) IsHostileTo(a, b social.FactionID) bool {
	return a != b && w.Relationship(a, b) <= social.HostileThreshold
}

func (w *fakeWorld) IsAtBest(a, b social.FactionID, level social.RepLevel) bool {
	return social.IsAtBest(w.Relationship(a, b), level)
}

func (w *fakeWorld) IsAtWorst(a, b social.FactionID, level social.RepLevel) bool {
	return social.IsAtWorst(w.Relationship(a, b), level)
}

func (w *fakeWorld) IsAllied(a, b social.FactionID) bool {
	for _, group := range w.alliances {
		var hasA, hasB bool
		for _, id := range group {
			hasA = hasA || id == a
			hasB = hasB || id == b
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

func (w *fakeWorld) AllianceMembers(id social.FactionID) []social.FactionID {
	for _, group := range w.alliances {
		for _, member := range group {
			if member == id {
				return append([]social.FactionID(nil), group...)
			}
		}
	}
	return nil
}

func (w *fakeWorld) Markets() []social.Market { return w.markets }
func (w *fakeWorld) DominanceFactor(id social.FactionID) float64 { return w.dominance[id] }
func (w *fakeWorld) CompetitionFactor(a, b social.FactionID) float64 { return w.competition }
func (w *fakeWorld) WarWeariness(id social.FactionID, _ bool) float64 { return w.weariness[id] }
func (w *fakeWorld) ModifyWarWeariness(id social.FactionID, d float64) { w.weariness[id] += d }
func (w *fakeWorld) DaysSinceLastWar() float64 { return w.sinceWar }
func (w *fakeWorld) OngoingInvasions() []social.Invasion { return w.invasions }
func (w *fakeWorld) PlayerFaction() social.FactionID { return w.player }
func (w *fakeWorld) PlayerLevel() int { return w.level }
func (w *fakeWorld) HardMode() bool { return w.hard }

func (w *fakeWorld) FactionsAtWarWith(id social.FactionID, q social.WarQuery) []social.FactionID {
	var out []social.FactionID
	for _, other := range w.LiveFactions() {
		if !w.IsHostileTo(id, other) {
			continue
		}
		f := w.factions[other]
		if f.Kind == social.KindPirate && !q.IncludePirates {
			continue
		}
		if f.Kind.IsRestricted() && !q.IncludeRestricted {
			continue
		}
		if q.CeasefireableOnly && !f.CanCeasefireWith(id) {
			continue
		}
		out = append(out, other)
	}
	return out
}

func (w *fakeWorld) PlayerFactionOfRecord() social.FactionID {
	if w.commission != "" {
		return w.commission
	}
	return w.player
}

func (w *fakeWorld) CommissionFaction() (social.FactionID, bool) {
	return w.commission, w.commission != ""
}

func (w *fakeWorld) CreateDiplomacyEvent(a, b social.FactionID, kind social.EventKind, params social.EventParams) (social.EventResult, error) {
	if w.eventErr != nil {
		return social.EventResult{}, w.eventErr
	}
	w.events = append(w.events, eventCall{a: a, b: b, kind: kind, params: params})
	res := social.EventResult{ID: fmt.Sprintf("ev-%d", len(w.events)), Kind: kind, Name: string(kind)}
	before := w.Relationship(a, b)
	switch kind {
	case social.EventDeclareWar:
		w.setRelation(a, b, -0.6)
		w.sinceWar = 0
	case social.EventCeasefire:
		w.setRelation(a, b, -0.3)
	case social.EventPeaceTreaty:
		w.setRelation(a, b, 0)
	default:
		w.setRelation(a, b, before+w.eventDelta)
	}
	res.Delta = w.Relationship(a, b) - before
	return res, nil
}

// stubPeers returns a fixed events value for every pair.
type stubPeers float64

func (p stubPeers) EventsDisposition(_, _ social.FactionID) float64 { return float64(p) }
