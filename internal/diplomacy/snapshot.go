package diplomacy

import (
	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// BrainState is the persisted value state of a Brain. World, randomness and
// peer handles are not part of it; Rehydrate restores them after a load.
type BrainState struct {
	Faction             social.FactionID                          `json:"faction"`
	Dispositions        map[social.FactionID]map[Modifier]float64 `json:"dispositions"`
	Ceasefires          map[social.FactionID]Ceasefire            `json:"ceasefires"`
	Enemies             []social.FactionID                        `json:"enemies"`
	Revanchism          map[social.FactionID]float64              `json:"revanchism"`
	Short               Interval                                  `json:"short"`
	Long                Interval                                  `json:"long"`
	OurStrength         float64                                   `json:"our_strength"`
	EnemyStrength       float64                                   `json:"enemy_strength"`
	PlayerOfferCooldown float64                                   `json:"player_offer_cooldown"`
}

// Snapshot copies the brain's value state.
func (b *Brain) Snapshot() BrainState {
	st := BrainState{
		Faction:             b.faction,
		Dispositions:        make(map[social.FactionID]map[Modifier]float64, len(b.dispositions)),
		Ceasefires:          make(map[social.FactionID]Ceasefire, len(b.ceasefires)),
		Enemies:             b.Enemies(),
		Revanchism:          b.Revanchism(),
		Short:               b.short,
		Long:                b.long,
		OurStrength:         b.ourStrength,
		EnemyStrength:       b.enemyStrength,
		PlayerOfferCooldown: b.playerOfferCooldown,
	}
	for id, e := range b.dispositions {
		st.Dispositions[id] = e.Disposition.Modifiers()
	}
	for id, cf := range b.ceasefires {
		st.Ceasefires[id] = cf
	}
	return st
}

// RestoreBrain rebuilds a brain from saved state. The result must be
// rehydrated before it can advance.
func RestoreBrain(st BrainState, cfg Config) *Brain {
	b := newBrain(st.Faction, cfg)
	for id, mods := range st.Dispositions {
		b.dispositions[id] = &DispositionEntry{Faction: id, Disposition: NewDisposition(mods)}
	}
	for id, cf := range st.Ceasefires {
		b.ceasefires[id] = cf
	}
	for id, v := range st.Revanchism {
		b.revanchism[id] = v
	}
	b.enemies = append([]social.FactionID(nil), st.Enemies...)
	b.short = st.Short
	b.long = st.Long
	b.ourStrength = st.OurStrength
	b.enemyStrength = st.EnemyStrength
	b.playerOfferCooldown = st.PlayerOfferCooldown
	return b
}

// Rehydrate reattaches the derived handles and fills in any state missing from
// an older save. Intervals that were saved keep their progress.
func (b *Brain) Rehydrate(w World, rng entropy.Source, peers Peers) {
	b.world = w
	b.rng = rng
	b.peers = peers
	if b.dispositions == nil {
		b.dispositions = make(map[social.FactionID]*DispositionEntry)
	}
	if b.ceasefires == nil {
		b.ceasefires = make(map[social.FactionID]Ceasefire)
	}
	if b.revanchism == nil {
		b.revanchism = make(map[social.FactionID]float64)
	}
	if rng == nil {
		return
	}

	if b.short.Max <= 0 {
		b.short = NewInterval(ShortIntervalMin, ShortIntervalMax, rng)
	}
	lo := b.cfg.BaseIntervalDays * (1 - IntervalJitter)
	hi := b.cfg.BaseIntervalDays * (1 + IntervalJitter)
	if b.long.Max <= 0 {
		b.long = NewInterval(lo, hi, rng)
	} else {
		b.long.SetBounds(lo, hi)
	}
}
