// Brain: one AI faction's diplomatic state and its two-cadence update loop.
package diplomacy

import (
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// Ceasefire is a timed truce with one rival.
type Ceasefire struct {
	Remaining float64 `json:"remaining"`
	EventID   string  `json:"event_id,omitempty"`
}

// Peers lets a brain read (never write) other brains' state.
type Peers interface {
	EventsDisposition(owner, toward social.FactionID) float64
}

// Brain decides foreign policy for one faction. It exclusively owns its state
// and is advanced from a single goroutine.
type Brain struct {
	faction social.FactionID
	cfg     Config

	dispositions        map[social.FactionID]*DispositionEntry
	ceasefires          map[social.FactionID]Ceasefire
	enemies             []social.FactionID
	revanchism          map[social.FactionID]float64
	short               Interval
	long                Interval
	ourStrength         float64
	enemyStrength       float64
	playerOfferCooldown float64

	// Derived handles, restored by Rehydrate after a load.
	world World
	rng   entropy.Source
	peers Peers
}

// NewBrain creates a ready-to-run brain for faction.
func NewBrain(faction social.FactionID, cfg Config, w World, rng entropy.Source, peers Peers) *Brain {
	b := newBrain(faction, cfg)
	b.Rehydrate(w, rng, peers)
	return b
}

func newBrain(faction social.FactionID, cfg Config) *Brain {
	return &Brain{
		faction:      faction,
		cfg:          cfg,
		dispositions: make(map[social.FactionID]*DispositionEntry),
		ceasefires:   make(map[social.FactionID]Ceasefire),
		revanchism:   make(map[social.FactionID]float64),
	}
}

// Faction is the faction this brain speaks for.
func (b *Brain) Faction() social.FactionID { return b.faction }

// Strength returns the cached own and enemy aggregate strength.
func (b *Brain) Strength() (ours, enemies float64) {
	return b.ourStrength, b.enemyStrength
}

// Disposition returns a read-only copy of the disposition toward rival.
func (b *Brain) Disposition(rival social.FactionID) (Disposition, bool) {
	e, ok := b.dispositions[rival]
	if !ok {
		return Disposition{}, false
	}
	return NewDisposition(e.Disposition.Modifiers()), true
}

// Ceasefires returns the remaining days of each active ceasefire.
func (b *Brain) Ceasefires() map[social.FactionID]float64 {
	out := make(map[social.FactionID]float64, len(b.ceasefires))
	for id, cf := range b.ceasefires {
		out[id] = cf.Remaining
	}
	return out
}

// Enemies returns the factions this brain last saw itself at war with.
func (b *Brain) Enemies() []social.FactionID {
	return append([]social.FactionID(nil), b.enemies...)
}

// Revanchism returns a copy of the cached revanchism penalties.
func (b *Brain) Revanchism() map[social.FactionID]float64 {
	out := make(map[social.FactionID]float64, len(b.revanchism))
	for id, v := range b.revanchism {
		out[id] = v
	}
	return out
}

// Advance moves the brain forward by days of simulated time. It returns the
// decision enacted on a long cycle, if any.
func (b *Brain) Advance(days float64) (*Decision, error) {
	if b.world == nil || b.rng == nil {
		return nil, ErrNotHydrated
	}
	if days < 0 || math.IsNaN(days) || math.IsInf(days, 0) {
		days = 0
	}
	alternate := b.world.HasAlternateController(b.faction)

	if fired, elapsed := b.short.Advance(days, b.rng); fired {
		b.UpdateEnemiesAndCeasefires(elapsed)
	}

	var decision *Decision
	if fired, elapsed := b.long.Advance(days, b.rng); fired {
		decision = b.update(elapsed, alternate)
	}

	if b.playerOfferCooldown > 0 {
		b.playerOfferCooldown = math.Max(0, b.playerOfferCooldown-days)
	}
	return decision, nil
}

// update is the long cycle: refresh caches and dispositions, then act.
func (b *Brain) update(days float64, alternate bool) *Decision {
	if !b.world.IsFactionAlive(b.faction) {
		return nil
	}
	b.refresh(days)
	if alternate {
		return nil
	}
	return b.considerOptions()
}

// refresh rebuilds the revanchism cache, strength estimates and dispositions.
func (b *Brain) refresh(days float64) {
	markets := b.world.Markets()
	b.CacheRevanchism(markets)
	b.ourStrength = strengthOf(b.world, b.faction, markets)
	b.enemyStrength = enemyStrengthOf(b.world, b.cfg, b.faction, markets)
	b.UpdateAllDispositions(days)
}

// considerOptions tries peace, then war, then a flavor event, stopping at the
// first that produces an intent.
func (b *Brain) considerOptions() *Decision {
	if b.world.IsDisallowed(b.faction) || b.playerRuled(b.faction) {
		return nil
	}
	slog.Debug("diplomacy brain considering options", "faction", b.faction)

	if p := b.CheckPeace(""); p != nil {
		return b.enactPeace(p)
	}
	if w := b.CheckWar(""); w != nil {
		return b.enactWar(w)
	}
	if e := b.MaybeEmit(); e != nil {
		return b.enactEvent(e)
	}
	return nil
}

// CacheRevanchism replaces the revanchism cache from the given markets.
func (b *Brain) CacheRevanchism(markets []social.Market) {
	b.revanchism = ComputeRevanchism(b.faction, b.world.PlayerFaction(), markets)
}

// UpdateEnemiesAndCeasefires is the short cycle: tick down ceasefires and
// refresh the enemy list. Enemies that stopped being hostile get a ceasefire.
func (b *Brain) UpdateEnemiesAndCeasefires(days float64) {
	for id, cf := range b.ceasefires {
		cf.Remaining -= days
		if cf.Remaining <= 0 {
			delete(b.ceasefires, id)
			continue
		}
		b.ceasefires[id] = cf
	}

	latest := b.world.FactionsAtWarWith(b.faction, social.WarQuery{
		IncludeRestricted: true,
		CeasefireableOnly: true,
	})
	for _, enemy := range b.enemies {
		if !b.world.IsFactionAlive(enemy) || b.world.IsHostileTo(b.faction, enemy) {
			continue
		}
		if _, ok := b.ceasefires[enemy]; ok {
			continue
		}
		slog.Info("faction no longer hostile", "faction", b.faction, "former_enemy", enemy)
		b.ceasefires[enemy] = Ceasefire{Remaining: CeasefireLength}
	}
	b.enemies = latest
}

// RecordCeasefire starts a full-length ceasefire with rival. Recording the same
// event twice does not restart the timer.
func (b *Brain) RecordCeasefire(rival social.FactionID, eventID string) {
	if cf, ok := b.ceasefires[rival]; ok && eventID != "" && cf.EventID == eventID {
		return
	}
	b.ceasefires[rival] = Ceasefire{Remaining: CeasefireLength, EventID: eventID}
}

// ReportEvent folds a diplomacy event's effect into the events modifier and
// returns the new events value.
func (b *Brain) ReportEvent(rival social.FactionID, effect float64) float64 {
	e := b.entryFor(rival)
	cur, _ := e.Disposition.Get(ModEvents)
	cur += effect * EventMult
	e.Disposition.set(ModEvents, cur)
	return cur
}

// EventsToward returns the current events modifier toward rival.
func (b *Brain) EventsToward(rival social.FactionID) float64 {
	e, ok := b.dispositions[rival]
	if !ok {
		return 0
	}
	v, _ := e.Disposition.Get(ModEvents)
	return v
}

// UpdateAllDispositions recomputes the disposition toward every live faction.
func (b *Brain) UpdateAllDispositions(days float64) {
	markets := b.world.Markets()
	for _, id := range b.world.LiveFactions() {
		if id == b.faction {
			continue
		}
		b.updateDisposition(id, days, markets)
	}
}

// UpdateDisposition recomputes the disposition toward rival. It reports false
// when either faction is unknown to the world.
func (b *Brain) UpdateDisposition(rival social.FactionID, days float64) bool {
	return b.updateDisposition(rival, days, nil)
}

func (b *Brain) updateDisposition(rival social.FactionID, days float64, markets []social.Market) bool {
	in, ok := b.gatherInputs(rival, markets)
	if !ok {
		return false
	}
	e := b.entryFor(rival)
	e.Disposition = ComputeDisposition(e.Disposition, in, days)
	return true
}

// entryFor returns the entry for rival, creating an empty one if needed.
func (b *Brain) entryFor(rival social.FactionID) *DispositionEntry {
	e, ok := b.dispositions[rival]
	if !ok {
		e = &DispositionEntry{Faction: rival}
		b.dispositions[rival] = e
	}
	return e
}

// dispositionValue returns the current disposition toward rival, computing it
// on first use.
func (b *Brain) dispositionValue(rival social.FactionID) (float64, bool) {
	if e, ok := b.dispositions[rival]; ok {
		return e.Disposition.Value(), true
	}
	if !b.UpdateDisposition(rival, 0) {
		return 0, false
	}
	return b.dispositions[rival].Disposition.Value(), true
}

func (b *Brain) gatherInputs(rival social.FactionID, markets []social.Market) (DispositionInputs, bool) {
	w := b.world
	self, ok := w.Faction(b.faction)
	if !ok {
		return DispositionInputs{}, false
	}
	other, ok := w.Faction(rival)
	if !ok {
		return DispositionInputs{}, false
	}

	in := DispositionInputs{
		HasBase:         !self.RandomRelationships && !other.RandomRelationships,
		Base:            self.BaseDispositions[rival],
		Relationship:    w.Relationship(b.faction, rival),
		OwnAlignments:   self.Alignments,
		RivalAlignments: other.Alignments,
		Revanchism:      b.revanchism[rival],
		Dominance:       w.DominanceFactor(rival),
		HardMode:        b.isHardMode(rival),
		HardModeMod:     b.cfg.HardModeDispositionMod,
		Traits:          self.Traits,
		RivalTraits:     other.Traits,
	}
	for _, enemy := range b.enemies {
		if w.IsHostileTo(rival, enemy) {
			in.CommonEnemies++
		}
	}

	traits := self.Traits
	if needsAICoreUsage(traits) || needsFreePorts(traits) {
		if markets == nil {
			markets = w.Markets()
		}
		for _, m := range markets {
			if m.Owner != rival {
				continue
			}
			in.TraitInputs.AICoreUsage += m.AICoreUsage
			if m.FreePort {
				in.TraitInputs.FreePortSize += float64(m.Size)
			}
		}
	}
	if traits.Has(social.TraitMonopolist) {
		in.TraitInputs.Competition = w.CompetitionFactor(b.faction, rival)
	}
	if traits.Has(social.TraitHelpsAllies) {
		in.TraitInputs.AllyEnemyScore = b.allyEnemyScore(rival)
	}
	return in, true
}

// allyEnemyScore counts our allies and friends currently at war with rival.
func (b *Brain) allyEnemyScore(rival social.FactionID) float64 {
	w := b.world
	score := 0.0
	enemies := w.FactionsAtWarWith(rival, social.WarQuery{IncludePirates: true, IncludeRestricted: true})
	for _, third := range enemies {
		if third == b.faction {
			continue
		}
		if w.IsAllied(b.faction, third) {
			score++
		} else if w.IsAtWorst(third, b.faction, social.RepFriendly) {
			score += 0.5
		}
	}
	return score
}

// isHardMode holds when hard mode is on and either side is the player or the
// faction the player acts for.
func (b *Brain) isHardMode(rival social.FactionID) bool {
	w := b.world
	if !w.HardMode() {
		return false
	}
	player, record := w.PlayerFaction(), w.PlayerFactionOfRecord()
	return rival == player || rival == record || b.faction == player || b.faction == record
}

// sortedDispositions returns entries by ascending disposition (most disliked
// first), ties broken by faction id so traversal is reproducible.
func (b *Brain) sortedDispositions() []*DispositionEntry {
	out := make([]*DispositionEntry, 0, len(b.dispositions))
	for _, e := range b.dispositions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].Disposition.Value(), out[j].Disposition.Value()
		if vi != vj {
			return vi < vj
		}
		return out[i].Faction < out[j].Faction
	})
	return out
}

// playerRuled holds for the player's own faction and the one it acts for.
func (b *Brain) playerRuled(id social.FactionID) bool {
	return id == b.world.PlayerFaction() || id == b.world.PlayerFactionOfRecord()
}

func (b *Brain) alliedOrSelf(a, other social.FactionID) bool {
	return a == other || b.world.IsAllied(a, other)
}

// Forget drops everything the brain holds about a removed faction.
func (b *Brain) Forget(rival social.FactionID) {
	delete(b.dispositions, rival)
	delete(b.ceasefires, rival)
	delete(b.revanchism, rival)
	for i, e := range b.enemies {
		if e == rival {
			b.enemies = append(b.enemies[:i], b.enemies[i+1:]...)
			break
		}
	}
}
