package sector

import (
	"sort"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// RelationEntry is one stored relationship.
type RelationEntry struct {
	A     social.FactionID `json:"a"`
	B     social.FactionID `json:"b"`
	Value float64          `json:"value"`
}

// State is the serializable form of a Sector.
type State struct {
	Day        float64                      `json:"day"`
	LastWarDay float64                      `json:"last_war_day"`
	Player     PlayerState                  `json:"player"`
	Factions   []*social.Faction            `json:"factions"`
	Dead       []social.FactionID           `json:"dead,omitempty"`
	Disallowed []social.FactionID           `json:"disallowed,omitempty"`
	Alternate  []social.FactionID           `json:"alternate,omitempty"`
	Relations  []RelationEntry              `json:"relations"`
	Alliances  []Alliance                   `json:"alliances,omitempty"`
	Markets    []social.Market              `json:"markets"`
	Weariness  map[social.FactionID]float64 `json:"weariness"`
	Invasions  []social.Invasion            `json:"invasions,omitempty"`
	Events     []Event                      `json:"events,omitempty"`
}

// State snapshots the sector. Slices are ordered so equal sectors produce
// equal states.
func (s *Sector) State() State {
	st := State{
		Day:        s.Day,
		LastWarDay: s.LastWarDay,
		Player:     s.Player,
		Dead:       flagged(s.dead),
		Disallowed: flagged(s.disallowed),
		Alternate:  flagged(s.alternate),
		Alliances:  s.Alliances(),
		Markets:    s.Markets(),
		Weariness:  make(map[social.FactionID]float64, len(s.weariness)),
		Invasions:  s.OngoingInvasions(),
		Events:     s.Events(0),
	}
	for _, id := range s.order {
		st.Factions = append(st.Factions, s.factions[id])
	}
	for p, v := range s.relations {
		st.Relations = append(st.Relations, RelationEntry{A: p.a, B: p.b, Value: v})
	}
	sort.Slice(st.Relations, func(i, j int) bool {
		if st.Relations[i].A != st.Relations[j].A {
			return st.Relations[i].A < st.Relations[j].A
		}
		return st.Relations[i].B < st.Relations[j].B
	})
	for id, v := range s.weariness {
		st.Weariness[id] = v
	}
	return st
}

// Restore rebuilds a sector from a snapshot.
func Restore(st State, rng entropy.Source) *Sector {
	s := New(st.Factions, st.Markets, rng)
	s.Day = st.Day
	s.LastWarDay = st.LastWarDay
	s.Player = st.Player
	for _, id := range st.Dead {
		s.dead[id] = true
	}
	for _, id := range st.Disallowed {
		s.disallowed[id] = true
	}
	for _, id := range st.Alternate {
		s.alternate[id] = true
	}
	for _, r := range st.Relations {
		s.SetRelation(r.A, r.B, r.Value)
	}
	for _, al := range st.Alliances {
		s.alliances = append(s.alliances, Alliance{Name: al.Name, Members: append([]social.FactionID(nil), al.Members...)})
	}
	for id, v := range st.Weariness {
		s.weariness[id] = v
	}
	s.invasions = append(s.invasions, st.Invasions...)
	s.log = append(s.log, st.Events...)
	return s
}

func flagged(m map[social.FactionID]bool) []social.FactionID {
	var out []social.FactionID
	for id, v := range m {
		if v {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
