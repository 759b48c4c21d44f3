// Relations: symmetric faction relationships, alliances and drift.
package sector

import (
	"log/slog"
	"math"

	"github.com/talgya/sector-diplomacy/internal/social"
)

// pair is an unordered faction pair, stored smaller id first.
type pair struct{ a, b social.FactionID }

func pairOf(a, b social.FactionID) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a, b}
}

// Relationship is the shared relationship between two factions in [-1, 1].
// A faction is always fully cooperative with itself.
func (s *Sector) Relationship(a, b social.FactionID) float64 {
	if a == b {
		return 1
	}
	return s.relations[pairOf(a, b)]
}

// SetRelation sets a symmetric relationship, clamped to [-1, 1].
func (s *Sector) SetRelation(a, b social.FactionID, value float64) {
	if a == b {
		return
	}
	s.relations[pairOf(a, b)] = math.Max(-1, math.Min(1, value))
}

// AdjustRelation shifts a relationship and returns the change actually applied.
func (s *Sector) AdjustRelation(a, b social.FactionID, delta float64) float64 {
	before := s.Relationship(a, b)
	s.SetRelation(a, b, before+delta)
	return s.Relationship(a, b) - before
}

// IsHostileTo reports whether the two factions are at war.
func (s *Sector) IsHostileTo(a, b social.FactionID) bool {
	return a != b && s.Relationship(a, b) <= social.HostileThreshold
}

// IsAtBest reports whether the relationship tier is level or worse.
func (s *Sector) IsAtBest(a, b social.FactionID, level social.RepLevel) bool {
	return social.IsAtBest(s.Relationship(a, b), level)
}

// IsAtWorst reports whether the relationship tier is level or better.
func (s *Sector) IsAtWorst(a, b social.FactionID, level social.RepLevel) bool {
	return social.IsAtWorst(s.Relationship(a, b), level)
}

// AddAlliance forms an alliance. Members are made at least friendly and any
// war between them ends.
func (s *Sector) AddAlliance(name string, members ...social.FactionID) {
	s.alliances = append(s.alliances, Alliance{Name: name, Members: append([]social.FactionID(nil), members...)})
	for i, a := range members {
		for _, b := range members[i+1:] {
			if s.Relationship(a, b) < 0.5 {
				s.SetRelation(a, b, 0.5)
			}
		}
	}
	slog.Info("alliance formed", "alliance", name, "members", len(members))
}

// Alliances returns a copy of the alliances.
func (s *Sector) Alliances() []Alliance {
	out := make([]Alliance, len(s.alliances))
	for i, al := range s.alliances {
		out[i] = Alliance{Name: al.Name, Members: append([]social.FactionID(nil), al.Members...)}
	}
	return out
}

func (s *Sector) allianceOf(id social.FactionID) (Alliance, bool) {
	for _, al := range s.alliances {
		for _, m := range al.Members {
			if m == id {
				return al, true
			}
		}
	}
	return Alliance{}, false
}

// IsAllied reports whether two distinct factions share an alliance.
func (s *Sector) IsAllied(a, b social.FactionID) bool {
	if a == b {
		return false
	}
	al, ok := s.allianceOf(a)
	if !ok {
		return false
	}
	for _, m := range al.Members {
		if m == b {
			return true
		}
	}
	return false
}

// AllianceMembers lists every member of id's alliance, id included, or nil.
func (s *Sector) AllianceMembers(id social.FactionID) []social.FactionID {
	al, ok := s.allianceOf(id)
	if !ok {
		return nil
	}
	return append([]social.FactionID(nil), al.Members...)
}

// driftRelations lets grudges fade and friendships cool. Wars do not drift.
func (s *Sector) driftRelations(days float64) {
	rate := math.Min(1, RelationDriftPerDay*days)
	for p, rel := range s.relations {
		if rel <= social.HostileThreshold || s.IsAllied(p.a, p.b) {
			continue
		}
		s.relations[p] = rel - rel*rate
	}
}
