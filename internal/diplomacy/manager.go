// Manager: owns every AI brain and the open player negotiations, and applies
// the peer side of each enacted decision.
package diplomacy

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// Manager advances all brains in a stable order once per simulation tick.
type Manager struct {
	cfg          Config
	world        World
	rng          entropy.Source
	brains       map[social.FactionID]*Brain
	negotiations []*CeasefireNegotiation
}

// ManagerState is the persisted value state of a Manager.
type ManagerState struct {
	Brains       []BrainState            `json:"brains"`
	Negotiations []*CeasefireNegotiation `json:"negotiations"`
}

// NewManager creates a manager with a brain for every live AI faction.
func NewManager(cfg Config, w World, rng entropy.Source) *Manager {
	m := &Manager{cfg: cfg, brains: make(map[social.FactionID]*Brain)}
	m.Rehydrate(w, rng)
	return m
}

// RestoreManager rebuilds a manager from saved state. It must be rehydrated
// before it can advance.
func RestoreManager(st ManagerState, cfg Config) *Manager {
	m := &Manager{cfg: cfg, brains: make(map[social.FactionID]*Brain, len(st.Brains))}
	for _, bs := range st.Brains {
		m.brains[bs.Faction] = RestoreBrain(bs, cfg)
	}
	for _, n := range st.Negotiations {
		if n != nil {
			m.negotiations = append(m.negotiations, n)
		}
	}
	return m
}

// Rehydrate reattaches the world and randomness to the manager and every brain,
// then creates brains for factions that have none.
func (m *Manager) Rehydrate(w World, rng entropy.Source) {
	m.world = w
	m.rng = rng
	for _, b := range m.brains {
		b.Rehydrate(w, rng, m)
	}
	if w != nil && rng != nil {
		m.Sync()
	}
}

// Sync creates brains for newly live factions and drops brains of dead ones.
func (m *Manager) Sync() {
	live := make(map[social.FactionID]bool)
	player := m.world.PlayerFaction()
	for _, id := range m.world.LiveFactions() {
		live[id] = true
		if id == player {
			continue
		}
		if _, ok := m.brains[id]; !ok {
			m.brains[id] = NewBrain(id, m.cfg, m.world, m.rng, m)
			slog.Debug("diplomacy brain created", "faction", id)
		}
	}
	for id := range m.brains {
		if live[id] {
			continue
		}
		delete(m.brains, id)
		for _, other := range m.brains {
			other.Forget(id)
		}
		slog.Info("diplomacy brain removed", "faction", id)
	}
}

// Brain returns the brain for a faction.
func (m *Manager) Brain(id social.FactionID) (*Brain, bool) {
	b, ok := m.brains[id]
	return b, ok
}

// Factions lists the factions that have a brain, sorted.
func (m *Manager) Factions() []social.FactionID {
	ids := make([]social.FactionID, 0, len(m.brains))
	for id := range m.brains {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// EventsDisposition implements Peers.
func (m *Manager) EventsDisposition(owner, toward social.FactionID) float64 {
	b, ok := m.brains[owner]
	if !ok {
		return 0
	}
	return b.EventsToward(toward)
}

// Advance moves every brain and negotiation forward by days and returns the
// decisions enacted this tick. A failing brain is logged and skipped.
func (m *Manager) Advance(days float64) ([]*Decision, error) {
	if m.world == nil || m.rng == nil {
		return nil, ErrNotHydrated
	}
	m.Sync()

	var decisions []*Decision
	for _, id := range m.Factions() {
		d, err := m.brains[id].Advance(days)
		if err != nil {
			slog.Error("diplomacy brain failed", "faction", id, "error", err)
			continue
		}
		if d == nil {
			continue
		}
		m.settle(d)
		decisions = append(decisions, d)
	}

	m.advanceNegotiations(days)
	return decisions, nil
}

// settle applies the counterpart's side of a decision: the target brain hears
// about the event and records the same ceasefire.
func (m *Manager) settle(d *Decision) {
	if d.Negotiation != nil {
		m.negotiations = append(m.negotiations, d.Negotiation)
		return
	}
	peer, ok := m.brains[d.Target]
	if !ok {
		return
	}
	peer.ReportEvent(d.Owner, d.Result.Delta)
	if d.Kind == DecisionPeace {
		peer.RecordCeasefire(d.Owner, d.Result.ID)
	}
}

func (m *Manager) advanceNegotiations(days float64) {
	kept := m.negotiations[:0]
	for _, n := range m.negotiations {
		if n.Advance(days, m.world, m.cfg) {
			m.settleNegotiation(n)
		}
		if !n.Ended() {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(m.negotiations); i++ {
		m.negotiations[i] = nil
	}
	m.negotiations = kept
}

func (m *Manager) settleNegotiation(n *CeasefireNegotiation) {
	if b, ok := m.brains[n.Proposer]; ok {
		b.RecordCeasefire(n.Player, n.Result.ID)
		b.ReportEvent(n.Player, n.Result.Delta)
	}
	if b, ok := m.brains[n.Player]; ok {
		b.RecordCeasefire(n.Proposer, n.Result.ID)
		b.ReportEvent(n.Proposer, n.Result.Delta)
	}
}

// ReportEvent tells both sides' brains about an event enacted outside the
// brains, such as one the player triggered.
func (m *Manager) ReportEvent(a, b social.FactionID, res social.EventResult) error {
	ba, okA := m.brains[a]
	bb, okB := m.brains[b]
	if !okA && !okB {
		return fmt.Errorf("report event %s between %s and %s: %w", res.ID, a, b, ErrUnknownFaction)
	}
	if okA {
		ba.ReportEvent(b, res.Delta)
	}
	if okB {
		bb.ReportEvent(a, res.Delta)
	}
	return nil
}

// Negotiations returns the open and recently resolved player negotiations.
func (m *Manager) Negotiations() []*CeasefireNegotiation {
	return append([]*CeasefireNegotiation(nil), m.negotiations...)
}

// Negotiation finds a negotiation by id.
func (m *Manager) Negotiation(id string) (*CeasefireNegotiation, error) {
	for _, n := range m.negotiations {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, fmt.Errorf("negotiation %s: %w", id, ErrUnknownNegotiation)
}

// AcceptNegotiation is the player's explicit accept.
func (m *Manager) AcceptNegotiation(id string) error {
	n, err := m.Negotiation(id)
	if err != nil {
		return err
	}
	if err := n.Accept(m.world, m.cfg); err != nil {
		return err
	}
	m.settleNegotiation(n)
	return nil
}

// RejectNegotiation is the player's explicit reject.
func (m *Manager) RejectNegotiation(id string) error {
	n, err := m.Negotiation(id)
	if err != nil {
		return err
	}
	return n.Reject(m.cfg)
}

// State copies the manager's value state, brains in faction order.
func (m *Manager) State() ManagerState {
	st := ManagerState{}
	for _, id := range m.Factions() {
		st.Brains = append(st.Brains, m.brains[id].Snapshot())
	}
	for _, n := range m.negotiations {
		cp := *n
		st.Negotiations = append(st.Negotiations, &cp)
	}
	return st
}
