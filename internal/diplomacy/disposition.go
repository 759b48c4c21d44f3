// Disposition: a faction's composite opinion of another, built from named modifiers.
package diplomacy

import (
	"math"

	"github.com/talgya/sector-diplomacy/internal/social"
)

// Modifier names one additive component of a disposition. The set is closed.
type Modifier string

const (
	ModBase          Modifier = "base"
	ModRelationship  Modifier = "relationship"
	ModAlignments    Modifier = "alignments"
	ModCommonEnemies Modifier = "commonEnemies"
	ModEvents        Modifier = "events"
	ModRevanchism    Modifier = "revanchism"
	ModDominance     Modifier = "dominance"
	ModHardMode      Modifier = "hardmode"
	ModTraits        Modifier = "traits"
)

// Modifiers lists the closed set in summation order.
var Modifiers = []Modifier{
	ModBase,
	ModRelationship,
	ModAlignments,
	ModCommonEnemies,
	ModEvents,
	ModRevanchism,
	ModDominance,
	ModHardMode,
	ModTraits,
}

func validModifier(m Modifier) bool {
	for _, known := range Modifiers {
		if m == known {
			return true
		}
	}
	return false
}

// Disposition is a sum of named modifiers. The zero value is an empty, neutral
// disposition.
type Disposition struct {
	mods map[Modifier]float64
}

// NewDisposition builds a disposition from raw modifier values, dropping names
// outside the closed set.
func NewDisposition(mods map[Modifier]float64) Disposition {
	var d Disposition
	for m, v := range mods {
		d.set(m, v)
	}
	return d
}

// Get returns a modifier's value and whether it is present.
func (d Disposition) Get(m Modifier) (float64, bool) {
	v, ok := d.mods[m]
	return v, ok
}

// Value is the total: the sum of all modifiers in fixed order, clamped.
func (d Disposition) Value() float64 {
	total := 0.0
	for _, m := range Modifiers {
		total += d.mods[m]
	}
	return clampDisposition(total)
}

// Modifiers returns a copy of the present modifiers.
func (d Disposition) Modifiers() map[Modifier]float64 {
	out := make(map[Modifier]float64, len(d.mods))
	for m, v := range d.mods {
		out[m] = v
	}
	return out
}

func (d *Disposition) set(m Modifier, v float64) {
	if !validModifier(m) {
		return
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if d.mods == nil {
		d.mods = make(map[Modifier]float64, len(Modifiers))
	}
	d.mods[m] = v
}

func (d *Disposition) unset(m Modifier) {
	delete(d.mods, m)
}

func (d *Disposition) scale(m Modifier, mult float64) {
	if v, ok := d.mods[m]; ok {
		d.set(m, v*mult)
	}
}

func (d *Disposition) addTraits(delta float64) {
	cur := d.mods[ModTraits]
	d.set(ModTraits, cur+delta)
}

func clampDisposition(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-MaxDispositionMagnitude, math.Min(MaxDispositionMagnitude, v))
}

// DispositionEntry is one brain's disposition toward one rival.
type DispositionEntry struct {
	Faction     social.FactionID
	Disposition Disposition
}

// DispositionInputs are the externally sourced values a recompute depends on.
type DispositionInputs struct {
	Base            float64
	HasBase         bool
	Relationship    float64
	OwnAlignments   social.Alignments
	RivalAlignments social.Alignments
	CommonEnemies   int
	Revanchism      float64
	Dominance       float64
	HardMode        bool
	HardModeMod     float64
	Traits          social.TraitSet
	RivalTraits     social.TraitSet
	TraitInputs     TraitInputs
}

// ComputeDisposition rebuilds a disposition from scratch. Only the events
// modifier carries over from prev, decayed toward zero by days.
func ComputeDisposition(prev Disposition, in DispositionInputs, days float64) Disposition {
	var d Disposition

	if events := decayEvents(prev.mods[ModEvents], days); events != 0 {
		d.set(ModEvents, events)
	}
	if in.HasBase {
		d.set(ModBase, in.Base)
	}
	d.set(ModRelationship, in.Relationship*RelationsMult)
	d.set(ModAlignments, AlignmentScore(in.OwnAlignments, in.RivalAlignments))
	d.set(ModCommonEnemies, float64(in.CommonEnemies)*CommonEnemyMult)
	d.set(ModRevanchism, -in.Revanchism)
	d.set(ModDominance, -in.Dominance*DominanceMult)
	if in.HardMode {
		d.set(ModHardMode, in.HardModeMod)
	}

	applyTraits(&d, in.Traits, in.RivalTraits, in.TraitInputs)
	return d
}

// decayEvents moves an events value linearly toward zero without crossing it.
func decayEvents(v, days float64) float64 {
	if days <= 0 {
		return v
	}
	step := EventDecrementPerDay * days
	switch {
	case v > 0:
		return math.Max(0, v-step)
	case v < 0:
		return math.Min(0, v+step)
	}
	return 0
}

// AlignmentScore rates ideological compatibility. Shared leanings add their
// magnitudes, opposed leanings subtract them, and diplomatic factions get a
// general bonus.
func AlignmentScore(ours, theirs social.Alignments) float64 {
	score := 0.0
	for _, axis := range social.AllAlignments {
		o, t := ours.Get(axis), theirs.Get(axis)
		if o == 0 || t == 0 {
			continue
		}
		mag := math.Abs(o) + math.Abs(t)
		if (o > 0) == (t > 0) {
			score += mag
		} else {
			score -= mag
		}
	}
	score += (ours.Get(social.AlignDiplomatic) + theirs.Get(social.AlignDiplomatic)) * AlignmentDiplomaticMult
	return score * AlignmentMult
}
