// Package sector is the in-memory world the diplomacy brains consult: the
// factions, their relationships and alliances, markets, war weariness and
// invasions. It turns diplomacy events into relationship changes.
package sector

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// ErrUnknownFaction is returned for events naming a faction the sector does
// not know or that is no longer alive.
var ErrUnknownFaction = errors.New("sector: unknown or dead faction")

// Tuning for the background war simulation.
const (
	WearinessPerWarDay   = 25.0  // per enemy, per day
	WearinessDecayPerDay = 50.0  // while at peace
	RelationDriftPerDay  = 0.002 // fraction of a non-hostile relationship lost per day
	InvasionChancePerDay = 0.01  // per hostile pair
	InvasionDays         = 20.0
	StartingDaysSinceWar = 365.0
	MaxLoggedEvents      = 500
)

// PlayerState describes the human-controlled faction.
type PlayerState struct {
	Faction    social.FactionID `json:"faction" yaml:"-"`
	Commission social.FactionID `json:"commission,omitempty" yaml:"commission"`
	Level      int              `json:"level" yaml:"level"`
	HardMode   bool             `json:"hard_mode" yaml:"hard_mode"`
}

// Alliance is a named group of factions that never fight each other.
type Alliance struct {
	Name    string             `json:"name"`
	Members []social.FactionID `json:"members"`
}

// Sector is the world state. It is not safe for concurrent use.
type Sector struct {
	Day        float64
	Player     PlayerState
	LastWarDay float64

	factions   map[social.FactionID]*social.Faction
	order      []social.FactionID
	dead       map[social.FactionID]bool
	disallowed map[social.FactionID]bool
	alternate  map[social.FactionID]bool
	relations  map[pair]float64
	alliances  []Alliance
	markets    []social.Market
	weariness  map[social.FactionID]float64
	invasions  []social.Invasion
	log        []Event

	rng entropy.Source
}

// New creates a sector from a roster and its markets.
func New(factions []*social.Faction, markets []social.Market, rng entropy.Source) *Sector {
	s := &Sector{
		Player:     PlayerState{Faction: social.PlayerFactionID},
		LastWarDay: -StartingDaysSinceWar,
		factions:   make(map[social.FactionID]*social.Faction, len(factions)),
		dead:       make(map[social.FactionID]bool),
		disallowed: make(map[social.FactionID]bool),
		alternate:  make(map[social.FactionID]bool),
		relations:  make(map[pair]float64),
		weariness:  make(map[social.FactionID]float64),
		markets:    append([]social.Market(nil), markets...),
		rng:        rng,
	}
	for _, f := range factions {
		s.factions[f.ID] = f
		s.order = append(s.order, f.ID)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })
	return s
}

// IsFactionAlive reports whether the faction exists and has not been eliminated.
func (s *Sector) IsFactionAlive(id social.FactionID) bool {
	_, ok := s.factions[id]
	return ok && !s.dead[id]
}

// LiveFactions lists living factions in id order.
func (s *Sector) LiveFactions() []social.FactionID {
	out := make([]social.FactionID, 0, len(s.order))
	for _, id := range s.order {
		if !s.dead[id] {
			out = append(out, id)
		}
	}
	return out
}

// Faction looks up a faction's static description.
func (s *Sector) Faction(id social.FactionID) (*social.Faction, bool) {
	f, ok := s.factions[id]
	return f, ok
}

func (s *Sector) IsDisallowed(id social.FactionID) bool { return s.disallowed[id] }
func (s *Sector) HasAlternateController(id social.FactionID) bool { return s.alternate[id] }

// SetDisallowed excludes a faction from diplomacy entirely.
func (s *Sector) SetDisallowed(id social.FactionID, v bool) { setFlag(s.disallowed, id, v) }

// SetAlternateController marks a faction as run by another strategic AI.
func (s *Sector) SetAlternateController(id social.FactionID, v bool) { setFlag(s.alternate, id, v) }

func setFlag(m map[social.FactionID]bool, id social.FactionID, v bool) {
	if v {
		m[id] = true
	} else {
		delete(m, id)
	}
}

// Markets returns a copy of every market.
func (s *Sector) Markets() []social.Market {
	return append([]social.Market(nil), s.markets...)
}

// DominanceFactor is how far a faction and its allies exceed a fair share of
// the sector's total market size, in [0, 1].
func (s *Sector) DominanceFactor(id social.FactionID) float64 {
	contenders := 0
	for _, fid := range s.LiveFactions() {
		if f := s.factions[fid]; f.Kind == social.KindStandard && fid != s.Player.Faction {
			contenders++
		}
	}
	if contenders < 2 {
		return 0
	}

	bloc := map[social.FactionID]bool{id: true}
	for _, m := range s.AllianceMembers(id) {
		bloc[m] = true
	}
	total, ours := 0.0, 0.0
	for _, m := range s.markets {
		total += float64(m.Size)
		if bloc[m.Owner] {
			ours += float64(m.Size)
		}
	}
	if total == 0 {
		return 0
	}
	fair := 1 / float64(contenders)
	return math.Max(0, (ours/total-fair)/(1-fair))
}

// CompetitionFactor sums, over industries both factions run, the smaller of
// the two factions' market sizes in that industry.
func (s *Sector) CompetitionFactor(a, b social.FactionID) float64 {
	sizeA := make(map[string]float64)
	sizeB := make(map[string]float64)
	for _, m := range s.markets {
		for _, ind := range m.Industries {
			switch m.Owner {
			case a:
				sizeA[ind] += float64(m.Size)
			case b:
				sizeB[ind] += float64(m.Size)
			}
		}
	}
	total := 0.0
	for ind, va := range sizeA {
		total += math.Min(va, sizeB[ind])
	}
	return total
}

// WarWeariness returns a faction's war weariness. Decay is applied as the
// sector advances, so the value is always current.
func (s *Sector) WarWeariness(id social.FactionID, _ bool) float64 {
	return s.weariness[id]
}

// ModifyWarWeariness adjusts weariness, never below zero.
func (s *Sector) ModifyWarWeariness(id social.FactionID, delta float64) {
	s.weariness[id] = math.Max(0, s.weariness[id]+delta)
}

// FactionsAtWarWith lists living factions hostile to id, narrowed by q.
func (s *Sector) FactionsAtWarWith(id social.FactionID, q social.WarQuery) []social.FactionID {
	var out []social.FactionID
	for _, other := range s.LiveFactions() {
		if !s.IsHostileTo(id, other) {
			continue
		}
		f := s.factions[other]
		if f.Kind == social.KindPirate && !q.IncludePirates {
			continue
		}
		if f.Kind == social.KindZealot && !q.IncludeRestricted {
			continue
		}
		if q.CeasefireableOnly {
			if self, ok := s.factions[id]; ok && !self.CanCeasefireWith(other) {
				continue
			}
			if !f.CanCeasefireWith(id) {
				continue
			}
		}
		out = append(out, other)
	}
	return out
}

// DaysSinceLastWar is the time since any war was declared in the sector.
func (s *Sector) DaysSinceLastWar() float64 { return s.Day - s.LastWarDay }

// OngoingInvasions returns a copy of the running invasions.
func (s *Sector) OngoingInvasions() []social.Invasion {
	return append([]social.Invasion(nil), s.invasions...)
}

func (s *Sector) PlayerFaction() social.FactionID { return s.Player.Faction }
func (s *Sector) PlayerLevel() int { return s.Player.Level }
func (s *Sector) HardMode() bool { return s.Player.HardMode }

// PlayerFactionOfRecord is the commissioning faction if any, else the player's own.
func (s *Sector) PlayerFactionOfRecord() social.FactionID {
	if s.Player.Commission != "" {
		return s.Player.Commission
	}
	return s.Player.Faction
}

// CommissionFaction returns the faction the player holds a commission with.
func (s *Sector) CommissionFaction() (social.FactionID, bool) {
	return s.Player.Commission, s.Player.Commission != ""
}

// Advance runs the background war simulation for days: weariness, relationship
// drift, invasions and faction elimination.
func (s *Sector) Advance(days float64) {
	if days <= 0 || math.IsNaN(days) || math.IsInf(days, 0) {
		return
	}
	s.Day += days

	live := s.LiveFactions()
	for _, id := range live {
		enemies := len(s.FactionsAtWarWith(id, social.WarQuery{IncludePirates: true, IncludeRestricted: true}))
		if enemies > 0 {
			s.weariness[id] += WearinessPerWarDay * float64(enemies) * days
		} else {
			s.ModifyWarWeariness(id, -WearinessDecayPerDay*days)
		}
	}
	s.driftRelations(days)
	s.advanceInvasions(days)
	s.startInvasions(live, days)
	s.eliminate()
}

func (s *Sector) advanceInvasions(days float64) {
	kept := s.invasions[:0]
	for _, inv := range s.invasions {
		inv.DaysLeft -= days
		if !s.IsHostileTo(inv.Attacker, inv.Defender) || !s.IsFactionAlive(inv.Attacker) {
			slog.Info("invasion called off", "attacker", inv.Attacker, "target", inv.Target)
			continue
		}
		if inv.DaysLeft > 0 {
			kept = append(kept, inv)
			continue
		}
		for i := range s.markets {
			if s.markets[i].ID == inv.Target && s.markets[i].Owner == inv.Defender {
				s.markets[i].Owner = inv.Attacker
				slog.Info("market captured",
					"market", s.markets[i].Name,
					"attacker", inv.Attacker,
					"defender", inv.Defender,
				)
			}
		}
	}
	s.invasions = kept
}

func (s *Sector) startInvasions(live []social.FactionID, days float64) {
	for _, attacker := range live {
		if attacker == s.Player.Faction {
			continue
		}
		for _, defender := range s.FactionsAtWarWith(attacker, social.WarQuery{IncludePirates: true, IncludeRestricted: true}) {
			if s.invading(attacker, defender) || !entropy.Chance(s.rng, InvasionChancePerDay*days) {
				continue
			}
			var targets []social.MarketID
			for _, m := range s.markets {
				if m.Owner == defender {
					targets = append(targets, m.ID)
				}
			}
			if len(targets) == 0 {
				continue
			}
			target := targets[entropy.Intn(s.rng, len(targets))]
			s.invasions = append(s.invasions, social.Invasion{
				Attacker: attacker,
				Defender: defender,
				Target:   target,
				DaysLeft: InvasionDays,
			})
			slog.Info("invasion launched", "attacker", attacker, "defender", defender, "target", target)
		}
	}
}

func (s *Sector) invading(attacker, defender social.FactionID) bool {
	for _, inv := range s.invasions {
		if inv.Attacker == attacker && inv.Defender == defender {
			return true
		}
	}
	return false
}

// eliminate marks factions without markets as dead. The player survives.
func (s *Sector) eliminate() {
	owned := make(map[social.FactionID]bool)
	for _, m := range s.markets {
		owned[m.Owner] = true
	}
	for _, id := range s.LiveFactions() {
		if owned[id] || id == s.Player.Faction {
			continue
		}
		s.dead[id] = true
		slog.Info("faction eliminated", "faction", id, "day", s.Day)
	}
}
