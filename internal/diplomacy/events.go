package diplomacy

import (
	"log/slog"
	"math"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// EventIntent asks the world for a flavor diplomacy event between Owner and
// Target, biased by Params.
type EventIntent struct {
	Owner  social.FactionID
	Target social.FactionID
	Params social.EventParams
}

// EventPolarity biases an event: outmatched factions and those that like the
// target only see positive events; those that dislike it only negative ones.
func EventPolarity(ourStrength, enemyStrength, disposition float64) social.EventParams {
	switch {
	case ourStrength*OutmatchedRatio < enemyStrength:
		return social.EventParams{OnlyPositive: true}
	case disposition <= DislikeThreshold:
		return social.EventParams{OnlyNegative: true}
	case disposition >= LikeThreshold:
		return social.EventParams{OnlyPositive: true}
	default:
		return social.EventParams{}
	}
}

// MaybeEmit occasionally picks a rival for a flavor event. The more factions
// are alive the less likely any single brain fires.
func (b *Brain) MaybeEmit() *EventIntent {
	w := b.world
	factions := w.LiveFactions()
	chance := math.Pow(EventChanceExponentBase, float64(len(factions)))
	if b.rng.Float64() > chance {
		return nil
	}

	entropy.Shuffle(b.rng, factions)
	record := w.PlayerFactionOfRecord()
	evaluated := 0
	for _, other := range factions {
		if other == b.faction || w.IsDisallowed(other) {
			continue
		}
		if b.playerRuled(other) && (!b.cfg.FollowersDiplomacy || other != record) {
			continue
		}
		if entropy.Chance(b.rng, EventSkipChance) {
			continue
		}
		evaluated++
		if evaluated > MaxEventCandidates {
			break
		}
		disposition, ok := b.dispositionValue(other)
		if !ok {
			continue
		}
		return &EventIntent{
			Owner:  b.faction,
			Target: other,
			Params: EventPolarity(b.ourStrength, b.enemyStrength, disposition),
		}
	}
	return nil
}

func (b *Brain) enactEvent(intent *EventIntent) *Decision {
	res, err := b.world.CreateDiplomacyEvent(intent.Owner, intent.Target, social.EventRandom, intent.Params)
	if err != nil {
		slog.Error("diplomacy event failed", "faction", b.faction, "target", intent.Target, "error", err)
		return nil
	}
	b.ReportEvent(intent.Target, res.Delta)
	slog.Info("diplomacy event",
		"faction", b.faction,
		"target", intent.Target,
		"event", res.Name,
		"delta", res.Delta,
	)
	return &Decision{Kind: DecisionEvent, Owner: b.faction, Target: intent.Target, Event: intent, Result: res}
}
