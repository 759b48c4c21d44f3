package diplomacy

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// NegotiationState is the outcome of a ceasefire offer to the player.
type NegotiationState int

const (
	NegotiationPending NegotiationState = iota
	NegotiationAccepted
	NegotiationRejected
)

func (s NegotiationState) String() string {
	switch s {
	case NegotiationAccepted:
		return "accepted"
	case NegotiationRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// CeasefireNegotiation is an AI faction's standing offer of a ceasefire or peace
// treaty to the human faction. It resolves on an explicit answer, when the
// player stops being hostile, when the proposer dies, or on timeout; once
// resolved it lingers for a short display period and then ends.
type CeasefireNegotiation struct {
	ID             string             `json:"id"`
	Proposer       social.FactionID   `json:"proposer"`
	Player         social.FactionID   `json:"player"`
	PeaceTreaty    bool               `json:"peace_treaty"`
	DaysRemaining  float64            `json:"days_remaining"`
	State          NegotiationState   `json:"state"`
	Expired        bool               `json:"expired"`
	DisplayDays    float64            `json:"display_days"`
	Result         social.EventResult `json:"result"`
	StoredRelation float64            `json:"stored_relation"`
}

// NewCeasefireNegotiation opens a pending offer with a deadline drawn from the
// configured negotiation window.
func NewCeasefireNegotiation(proposer, player social.FactionID, peaceTreaty bool, cfg Config, src entropy.Source) *CeasefireNegotiation {
	return &CeasefireNegotiation{
		ID:            uuid.NewString(),
		Proposer:      proposer,
		Player:        player,
		PeaceTreaty:   peaceTreaty,
		DaysRemaining: entropy.Range(src, cfg.NegotiationMinDays, cfg.NegotiationMaxDays),
		State:         NegotiationPending,
	}
}

// Pending reports whether the offer still awaits an answer.
func (n *CeasefireNegotiation) Pending() bool { return n.State == NegotiationPending }

// Ended reports whether the offer is resolved and its display period is over.
func (n *CeasefireNegotiation) Ended() bool {
	return n.State != NegotiationPending && n.DisplayDays <= 0
}

// Accept enacts the ceasefire or treaty. On a collaborator failure the offer
// stays pending.
func (n *CeasefireNegotiation) Accept(w World, cfg Config) error {
	if !n.Pending() {
		return ErrNegotiationResolved
	}
	kind := social.EventCeasefire
	if n.PeaceTreaty {
		kind = social.EventPeaceTreaty
	}
	res, err := w.CreateDiplomacyEvent(n.Proposer, n.Player, kind, social.EventParams{})
	if err != nil {
		return fmt.Errorf("accept negotiation %s: %w", n.ID, err)
	}
	reduction := cfg.wearinessReduction(n.PeaceTreaty)
	w.ModifyWarWeariness(n.Proposer, -reduction)
	w.ModifyWarWeariness(n.Player, -reduction)
	n.Result = res
	n.StoredRelation = w.Relationship(n.Proposer, n.Player)
	n.resolve(NegotiationAccepted, cfg)
	return nil
}

// Reject turns the offer down.
func (n *CeasefireNegotiation) Reject(cfg Config) error {
	if !n.Pending() {
		return ErrNegotiationResolved
	}
	n.resolve(NegotiationRejected, cfg)
	return nil
}

func (n *CeasefireNegotiation) resolve(state NegotiationState, cfg Config) {
	n.State = state
	n.DisplayDays = cfg.NegotiationDisplayDays
	slog.Info("ceasefire negotiation resolved",
		"negotiation", n.ID,
		"proposer", n.Proposer,
		"state", state.String(),
		"expired", n.Expired,
	)
}

// Advance runs the automatic transitions. It reports true when the offer was
// accepted during this call.
func (n *CeasefireNegotiation) Advance(days float64, w World, cfg Config) bool {
	if !n.Pending() {
		n.DisplayDays -= days
		return false
	}

	if !w.IsFactionAlive(n.Proposer) {
		n.Expired = true
		n.resolve(NegotiationRejected, cfg)
		return false
	}

	if !w.IsHostileTo(n.Player, n.Proposer) {
		return n.autoAccept(w, cfg)
	}

	n.DaysRemaining -= days
	if n.DaysRemaining > 0 {
		return false
	}
	n.DaysRemaining = 0
	n.Expired = true
	if cfg.AcceptCeasefiresOnTimeout {
		return n.autoAccept(w, cfg)
	}
	n.resolve(NegotiationRejected, cfg)
	return false
}

func (n *CeasefireNegotiation) autoAccept(w World, cfg Config) bool {
	if err := n.Accept(w, cfg); err != nil {
		slog.Error("automatic ceasefire acceptance failed", "negotiation", n.ID, "error", err)
		n.resolve(NegotiationRejected, cfg)
		return false
	}
	return true
}
