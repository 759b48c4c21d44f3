package diplomacy

import (
	"log/slog"
	"sort"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// PeaceIntent asks to end the war between Proposer and Target. When Target is
// the human faction the answer comes through a CeasefireNegotiation.
type PeaceIntent struct {
	Proposer    social.FactionID
	Target      social.FactionID
	PeaceTreaty bool // false means ceasefire only
	WithPlayer  bool
}

// CheckPeace looks for an enemy to make peace with, or returns nil. An empty
// target considers every enemy.
func (b *Brain) CheckPeace(target social.FactionID) *PeaceIntent {
	w := b.world
	if len(b.enemies) == 0 {
		return nil
	}
	self, ok := w.Faction(b.faction)
	if !ok {
		return nil
	}
	if self.Kind == social.KindPirate && !b.cfg.AllowPirateWars {
		return nil
	}
	if w.DaysSinceLastWar() < b.cfg.MinDaysBetweenWars {
		return nil
	}

	ours := w.WarWeariness(b.faction, true)
	slog.Info("checking peace", "faction", b.faction, "weariness", ours)
	if ours < b.cfg.MinWarWearinessForPeace {
		return nil
	}

	enemies := append([]social.FactionID(nil), b.enemies...)
	weariness := make(map[social.FactionID]float64, len(enemies))
	for _, id := range enemies {
		weariness[id] = w.WarWeariness(id, false)
	}
	sort.SliceStable(enemies, func(i, j int) bool {
		return weariness[enemies[i]] < weariness[enemies[j]]
	})

	blocked := b.invasionBlocked()
	_, commissioned := w.CommissionFaction()
	tries := MaxPeaceTries
	for _, enemy := range enemies {
		if target != "" && enemy != target {
			continue
		}
		if blocked[enemy] {
			continue
		}
		other, ok := w.Faction(enemy)
		if !ok || !w.IsFactionAlive(enemy) {
			continue
		}
		if !self.CanCeasefireWith(enemy) || !other.CanCeasefireWith(b.faction) {
			continue
		}
		if enemy == w.PlayerFaction() && commissioned {
			continue
		}

		if intent := b.tryMakePeace(enemy, ours); intent != nil {
			return intent
		}
		tries--
		if tries <= 0 {
			break
		}
	}
	return nil
}

func (b *Brain) tryMakePeace(enemy social.FactionID, ours float64) *PeaceIntent {
	w := b.world
	withPlayer := enemy == w.PlayerFaction()
	theirs := w.WarWeariness(enemy, true)
	if withPlayer {
		if b.playerOfferCooldown > 0 {
			return nil
		}
	} else if theirs < b.cfg.MinWarWearinessForPeace {
		return nil
	}

	sum := ours + theirs
	eventsMod := b.EventsToward(enemy)
	if b.peers != nil {
		eventsMod += b.peers.EventsDisposition(enemy, b.faction)
	}
	sum += eventsMod * EventPeaceMult

	divisor := b.cfg.peaceDivisor(w.PlayerLevel())
	if b.rng.Float64() > sum/divisor {
		return nil
	}

	// Vengeful relations only ever allow a ceasefire.
	treaty := false
	if w.IsAtWorst(b.faction, enemy, social.RepHostile) {
		treaty = entropy.Chance(b.rng, b.cfg.PeaceTreatyChance)
	}
	slog.Info("negotiating peace",
		"faction", b.faction,
		"enemy", enemy,
		"weariness_sum", sum,
		"peace_treaty", treaty,
	)
	return &PeaceIntent{Proposer: b.faction, Target: enemy, PeaceTreaty: treaty, WithPlayer: withPlayer}
}

// invasionBlocked lists factions we will not make peace with because an
// invasion involving us or an ally is under way, expanded to their alliances.
func (b *Brain) invasionBlocked() map[social.FactionID]bool {
	w := b.world
	player := w.PlayerFaction()
	involved := make(map[social.FactionID]bool)
	for _, inv := range w.OngoingInvasions() {
		if b.alliedOrSelf(inv.Attacker, b.faction) {
			involved[inv.Defender] = true
		}
		if inv.Attacker != player && b.alliedOrSelf(inv.Defender, b.faction) {
			involved[inv.Attacker] = true
		}
	}

	blocked := make(map[social.FactionID]bool, len(involved))
	for id := range involved {
		blocked[id] = true
		for _, member := range w.AllianceMembers(id) {
			blocked[member] = true
		}
	}
	return blocked
}

func (b *Brain) enactPeace(intent *PeaceIntent) *Decision {
	w := b.world
	d := &Decision{Kind: DecisionPeace, Owner: b.faction, Target: intent.Target, Peace: intent}

	if intent.WithPlayer {
		d.Negotiation = NewCeasefireNegotiation(b.faction, intent.Target, intent.PeaceTreaty, b.cfg, b.rng)
		b.playerOfferCooldown = b.cfg.PlayerOfferCooldownDays
		slog.Info("ceasefire offered to player",
			"faction", b.faction,
			"negotiation", d.Negotiation.ID,
			"peace_treaty", intent.PeaceTreaty,
			"days", d.Negotiation.DaysRemaining,
		)
		return d
	}

	kind := social.EventCeasefire
	if intent.PeaceTreaty {
		kind = social.EventPeaceTreaty
	}
	res, err := w.CreateDiplomacyEvent(b.faction, intent.Target, kind, social.EventParams{})
	if err != nil {
		slog.Error("peace event failed", "faction", b.faction, "enemy", intent.Target, "error", err)
		return nil
	}
	reduction := b.cfg.wearinessReduction(intent.PeaceTreaty)
	w.ModifyWarWeariness(b.faction, -reduction)
	w.ModifyWarWeariness(intent.Target, -reduction)
	b.RecordCeasefire(intent.Target, res.ID)
	b.ReportEvent(intent.Target, res.Delta)
	d.Result = res
	return d
}
