package diplomacy

import "github.com/talgya/sector-diplomacy/internal/social"

// TraitInputs are the world measurements trait effects consume. Each is only
// gathered when the owner has a trait that reads it.
type TraitInputs struct {
	AICoreUsage    float64 // rival's summed AI core usage
	FreePortSize   float64 // rival's summed free port market size
	Competition    float64 // commodity competition between owner and rival
	AllyEnemyScore float64 // +1 per ally, +0.5 per friend, at war with the rival
}

type traitEffect func(in TraitInputs, d *Disposition)

// ownerTraitEffects apply when the brain's own faction carries the trait.
var ownerTraitEffects = map[social.Trait]traitEffect{
	social.TraitIrredentist: func(_ TraitInputs, d *Disposition) {
		d.scale(ModRevanchism, IrredentistMult)
	},
	social.TraitSelfRighteous: func(_ TraitInputs, d *Disposition) {
		d.scale(ModAlignments, SelfRighteousMult)
	},
	social.TraitTemperamental: func(_ TraitInputs, d *Disposition) {
		d.scale(ModRelationship, TemperamentalMult)
	},
	social.TraitHatesAI: func(in TraitInputs, d *Disposition) {
		d.addTraits(-in.AICoreUsage * AIPenaltyMult)
	},
	social.TraitDislikesAI: func(in TraitInputs, d *Disposition) {
		d.addTraits(-in.AICoreUsage * AIPenaltyMult * 0.5)
	},
	social.TraitLikesAI: func(in TraitInputs, d *Disposition) {
		d.addTraits(in.AICoreUsage * AIPenaltyMult * 0.5)
	},
	social.TraitEnvious: func(_ TraitInputs, d *Disposition) {
		d.scale(ModDominance, EnviousMult)
	},
	social.TraitSubmissive: func(_ TraitInputs, d *Disposition) {
		d.scale(ModDominance, -1)
	},
	social.TraitNeutralist: func(_ TraitInputs, d *Disposition) {
		d.unset(ModDominance)
	},
	social.TraitMonopolist: func(in TraitInputs, d *Disposition) {
		d.addTraits(-in.Competition * CompetitionPenaltyMult)
	},
	social.TraitHelpsAllies: func(in TraitInputs, d *Disposition) {
		d.addTraits(-in.AllyEnemyScore * EnemyOfAllyPenaltyMult)
	},
	social.TraitLawAndOrder: func(in TraitInputs, d *Disposition) {
		d.addTraits(-in.FreePortSize * FreePortPenaltyMult)
	},
	social.TraitAnarchist: func(in TraitInputs, d *Disposition) {
		d.addTraits(in.FreePortSize * FreePortBonusMult)
	},
}

// ownerTraitOrder fixes application order; dominance traits run in the order
// envious, submissive, neutralist.
var ownerTraitOrder = []social.Trait{
	social.TraitIrredentist,
	social.TraitSelfRighteous,
	social.TraitTemperamental,
	social.TraitDislikesAI,
	social.TraitLikesAI,
	social.TraitHatesAI,
	social.TraitEnvious,
	social.TraitSubmissive,
	social.TraitNeutralist,
	social.TraitMonopolist,
	social.TraitHelpsAllies,
	social.TraitLawAndOrder,
	social.TraitAnarchist,
}

// rivalTraitEffects apply when the rival carries the trait.
var rivalTraitEffects = map[social.Trait]traitEffect{
	social.TraitMonstrous: func(_ TraitInputs, d *Disposition) {
		d.addTraits(MonstrousPenalty)
	},
}

var rivalTraitOrder = []social.Trait{social.TraitMonstrous}

// exclusiveTraits are groups where only the first present member, in order, applies.
var exclusiveTraits = [][]social.Trait{
	{social.TraitDislikesAI, social.TraitLikesAI, social.TraitHatesAI},
	{social.TraitLawAndOrder, social.TraitAnarchist},
}

// effectiveTraits drops traits shadowed by a higher-precedence member of their group.
func effectiveTraits(traits social.TraitSet) social.TraitSet {
	out := make(social.TraitSet, len(traits))
	for t := range traits {
		out[t] = struct{}{}
	}
	for _, group := range exclusiveTraits {
		found := false
		for _, t := range group {
			if !out.Has(t) {
				continue
			}
			if found {
				delete(out, t)
			}
			found = true
		}
	}
	return out
}

func applyTraits(d *Disposition, own, rival social.TraitSet, in TraitInputs) {
	own = effectiveTraits(own)
	for _, t := range ownerTraitOrder {
		if own.Has(t) {
			ownerTraitEffects[t](in, d)
		}
	}
	for _, t := range rivalTraitOrder {
		if rival.Has(t) {
			rivalTraitEffects[t](in, d)
		}
	}
}

func needsAICoreUsage(t social.TraitSet) bool {
	return t.Has(social.TraitHatesAI) || t.Has(social.TraitDislikesAI) || t.Has(social.TraitLikesAI)
}

func needsFreePorts(t social.TraitSet) bool {
	return t.Has(social.TraitLawAndOrder) || t.Has(social.TraitAnarchist)
}
