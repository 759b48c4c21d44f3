package diplomacy

import (
	"testing"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// duel builds two equally strong factions whose disposition toward each other
// is exactly disposition: the relationship sits at the inhospitable boundary
// (-0.25, worth -6.25) and the base disposition makes up the rest.
func duel(disposition float64) *fakeWorld {
	a, b := standard("a"), standard("b")
	a.BaseDispositions = map[social.FactionID]float64{"b": disposition + 6.25}
	w := newFakeWorld(a, b)
	w.setRelation("a", "b", -0.25)
	w.market("a", "a", 10)
	w.market("b", "b", 10)
	return w
}

func TestMaxRepForWar(t *testing.T) {
	tests := []struct {
		traits []social.Trait
		want   social.RepLevel
	}{
		{nil, social.RepInhospitable},
		{[]social.Trait{social.TraitPredatory}, social.RepWelcoming},
		{[]social.Trait{social.TraitParanoid}, social.RepSuspicious},
		{[]social.Trait{social.TraitPacifist}, social.RepVengeful},
		{[]social.Trait{social.TraitPacifist, social.TraitPredatory}, social.RepWelcoming},
	}
	for _, tt := range tests {
		if got := MaxRepForWar(social.NewTraitSet(tt.traits...)); got != tt.want {
			t.Errorf("MaxRepForWar(%v) = %v, want %v", tt.traits, got, tt.want)
		}
	}
}

func TestWarScore(t *testing.T) {
	if got := WarScore(-50, 0.25, 1.5, 2); got != (50+10)*1.5*2 {
		t.Errorf("WarScore = %f", got)
	}
	// Negative scores are not amplified.
	if got := WarScore(30, 0, 3, 3); got != -30 {
		t.Errorf("WarScore = %f, want -30", got)
	}
}

func TestWarThreshold(t *testing.T) {
	const trials = 200

	t.Run("below threshold minus jitter never fires", func(t *testing.T) {
		w := duel(-(WarScoreThreshold - WarScoreJitter))
		for seed := int64(0); seed < trials; seed++ {
			b := testBrain(w, "a", seed)
			prime(b)
			if got := b.CheckWar(""); got != nil {
				t.Fatalf("seed %d: war on %s with score %f", seed, got.Target, got.Score)
			}
		}
	})

	t.Run("at threshold plus jitter may fire", func(t *testing.T) {
		w := duel(-(WarScoreThreshold + WarScoreJitter))
		fired := 0
		for seed := int64(0); seed < trials; seed++ {
			b := testBrain(w, "a", seed)
			prime(b)
			if got := b.CheckWar(""); got != nil {
				if got.Target != "b" || got.Aggressor != "a" {
					t.Fatalf("unexpected intent %+v", got)
				}
				fired++
			}
		}
		if fired == 0 {
			t.Fatal("war never fired")
		}
	})
}

func TestCheckWarWearinessGate(t *testing.T) {
	w := duel(-400)
	w.weariness["a"] = 8000
	for seed := int64(0); seed < 50; seed++ {
		b := testBrain(w, "a", seed)
		prime(b)
		if got := b.CheckWar(""); got != nil {
			t.Fatalf("seed %d: war declared at weariness 8000", seed)
		}
	}
}

func TestCheckWarExclusions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(w *fakeWorld, b *Brain)
	}{
		{"allied", func(w *fakeWorld, _ *Brain) {
			w.alliances = [][]social.FactionID{{"a", "b"}}
		}},
		{"ceasefire", func(_ *fakeWorld, b *Brain) {
			b.RecordCeasefire("b", "ev-1")
		}},
		{"relationship above ceiling", func(w *fakeWorld, _ *Brain) {
			w.setRelation("a", "b", 0)
		}},
		{"already at war", func(w *fakeWorld, _ *Brain) {
			w.setRelation("a", "b", -0.6)
		}},
		{"recent war", func(w *fakeWorld, _ *Brain) {
			w.sinceWar = 10
		}},
		{"disallowed target", func(w *fakeWorld, _ *Brain) {
			w.disallowed["b"] = true
		}},
		{"pacifist", func(w *fakeWorld, _ *Brain) {
			w.factions["a"].Traits = social.NewTraitSet(social.TraitPacifist)
		}},
		{"pirate target", func(w *fakeWorld, _ *Brain) {
			w.factions["b"].Kind = social.KindPirate
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 30; seed++ {
				w := duel(-400)
				b := testBrain(w, "a", seed)
				tt.setup(w, b)
				prime(b)
				if got := b.CheckWar(""); got != nil {
					t.Fatalf("seed %d: war declared on %s", seed, got.Target)
				}
			}
		})
	}
}

func TestCommissionedPlayerIsNotATarget(t *testing.T) {
	w := duel(-400)
	w.factions[social.PlayerFactionID] = standard(social.PlayerFactionID)
	w.factions["a"].BaseDispositions[social.PlayerFactionID] = -400
	w.setRelation("a", social.PlayerFactionID, -0.25)
	w.setRelation("a", "b", 0)
	w.commission = "persean"

	for seed := int64(0); seed < 30; seed++ {
		b := testBrain(w, "a", seed)
		prime(b)
		if got := b.CheckWar(""); got != nil {
			t.Fatalf("seed %d: war declared on %s", seed, got.Target)
		}
	}
}

func TestEnactWarReportsEvent(t *testing.T) {
	w := duel(-400)
	b := NewBrain("a", DefaultConfig(), w, entropy.NewSeeded(1), stubPeers(0))
	prime(b)
	intent := b.CheckWar("")
	if intent == nil {
		t.Fatal("expected a war intent")
	}
	d := b.enactWar(intent)
	if d == nil || d.Kind != DecisionWar {
		t.Fatalf("decision = %+v", d)
	}
	if !w.IsHostileTo("a", "b") {
		t.Error("world not at war after declaration")
	}
	if len(w.events) != 1 || w.events[0].kind != social.EventDeclareWar {
		t.Errorf("events = %+v", w.events)
	}
	if got, want := b.EventsToward("b"), d.Result.Delta*EventMult; got != want {
		t.Errorf("events modifier = %f, want %f", got, want)
	}
}
