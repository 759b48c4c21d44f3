package diplomacy

import (
	"log/slog"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// WarIntent asks the world to have Aggressor declare war on Target.
type WarIntent struct {
	Aggressor social.FactionID
	Target    social.FactionID
	Score     float64
}

// MaxRepForWar is the best relationship tier at which a faction with these
// traits will still start a war. Pacifists return RepVengeful, which disables war.
func MaxRepForWar(traits social.TraitSet) social.RepLevel {
	switch {
	case traits.Has(social.TraitPredatory):
		return social.RepWelcoming
	case traits.Has(social.TraitParanoid):
		return social.RepSuspicious
	case traits.Has(social.TraitPacifist):
		return social.RepVengeful
	default:
		return social.RepInhospitable
	}
}

// WarScore combines dislike and the target's dominance; a positive score is
// then scaled by militarism and relative strength.
func WarScore(disposition, dominance, militarismMult, strengthRatio float64) float64 {
	score := -disposition + dominance*WarDominanceMult
	if score > 0 {
		score *= militarismMult * strengthRatio
	}
	return score
}

// WarDecisionRating scores how attractive a war against enemy is right now.
func (b *Brain) WarDecisionRating(enemy social.FactionID, markets []social.Market) float64 {
	w := b.world
	self, ok := w.Faction(b.faction)
	if !ok {
		return 0
	}
	disposition, ok := b.dispositionValue(enemy)
	if !ok {
		return 0
	}
	if markets == nil {
		markets = w.Markets()
	}

	targetStrength := strengthOf(w, enemy, markets)
	targetEnemyStrength := enemyStrengthOf(w, b.cfg, enemy, markets)
	ratio := StrengthRatio(b.ourStrength, b.enemyStrength, targetStrength, targetEnemyStrength)
	militarism := self.Alignments.Get(social.AlignMilitarist)*MilitarismWarMult + 1
	dominance := w.DominanceFactor(enemy)

	score := WarScore(disposition, dominance, militarism, ratio)
	slog.Debug("war rating",
		"faction", b.faction,
		"target", enemy,
		"disposition", disposition,
		"strength_ratio", ratio,
		"militarism_mult", militarism,
		"dominance", dominance,
		"score", score,
	)
	return score
}

// CheckWar picks a war target, or returns nil. An empty target considers every
// rival; otherwise only that one. It does not change the world.
func (b *Brain) CheckWar(target social.FactionID) *WarIntent {
	w := b.world
	if w.DaysSinceLastWar() < b.cfg.MinDaysBetweenWars {
		return nil
	}
	self, ok := w.Faction(b.faction)
	if !ok {
		return nil
	}
	if self.Kind.IsRestricted() && !b.cfg.AllowPirateWars {
		return nil
	}
	if weariness := w.WarWeariness(b.faction, true); weariness > MaxWearinessForWar {
		slog.Debug("too war weary for war", "faction", b.faction, "weariness", weariness)
		return nil
	}

	maxRep := MaxRepForWar(self.Traits)
	if maxRep <= social.RepHostile {
		return nil
	}
	predatory := self.Traits.Has(social.TraitPredatory)
	markets := w.Markets()

	var picker entropy.Picker[social.FactionID]
	scores := make(map[social.FactionID]float64)
	for _, e := range b.sortedDispositions() {
		other := e.Faction
		if target != "" && other != target {
			continue
		}
		thisMaxRep := maxRep
		if predatory && other == w.PlayerFaction() {
			thisMaxRep = social.RepSuspicious
		}
		if !b.warEligible(other, thisMaxRep) {
			continue
		}
		disposition := e.Disposition.Value()
		if !predatory && disposition > MaxDispositionForWar {
			continue
		}

		rating := b.WarDecisionRating(other, markets)
		if rating > WarScoreThreshold+entropy.Range(b.rng, -WarScoreJitter, WarScoreJitter) {
			picker.Add(other, rating)
			scores[other] = rating
		}
	}

	pick, ok := picker.Pick(b.rng)
	if !ok {
		return nil
	}
	slog.Info("war target chosen", "faction", b.faction, "target", pick, "candidates", picker.Len())
	return &WarIntent{Aggressor: b.faction, Target: pick, Score: scores[pick]}
}

// warEligible filters candidates that may never be targeted, whatever their score.
func (b *Brain) warEligible(other social.FactionID, maxRep social.RepLevel) bool {
	w := b.world
	if other == b.faction {
		return false
	}
	if w.IsAllied(b.faction, other) {
		return false
	}
	// A commissioned player is represented by their employer.
	if other == w.PlayerFaction() && other != w.PlayerFactionOfRecord() {
		return false
	}
	if !w.IsFactionAlive(other) || w.IsDisallowed(other) {
		return false
	}
	f, ok := w.Faction(other)
	if !ok {
		return false
	}
	if f.Kind == social.KindPirate && !b.cfg.AllowPirateWars {
		return false
	}
	if _, ok := b.ceasefires[other]; ok {
		return false
	}
	if !w.IsAtBest(b.faction, other, maxRep) {
		return false
	}
	return !w.IsHostileTo(b.faction, other)
}

func (b *Brain) enactWar(intent *WarIntent) *Decision {
	res, err := b.world.CreateDiplomacyEvent(intent.Aggressor, intent.Target, social.EventDeclareWar, social.EventParams{})
	if err != nil {
		slog.Error("declare war failed", "faction", b.faction, "target", intent.Target, "error", err)
		return nil
	}
	b.ReportEvent(intent.Target, res.Delta)
	slog.Info("war declared", "faction", b.faction, "target", intent.Target, "event", res.ID)
	return &Decision{Kind: DecisionWar, Owner: b.faction, Target: intent.Target, War: intent, Result: res}
}
