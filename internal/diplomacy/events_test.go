package diplomacy

import (
	"testing"

	"github.com/talgya/sector-diplomacy/internal/social"
)

func TestEventPolarity(t *testing.T) {
	tests := []struct {
		name                string
		ours, enemies, disp float64
		want                social.EventParams
	}{
		{"outmatched", 10, 20, -100, social.EventParams{OnlyPositive: true}},
		{"likes", 10, 0, LikeThreshold, social.EventParams{OnlyPositive: true}},
		{"dislikes", 10, 0, DislikeThreshold, social.EventParams{OnlyNegative: true}},
		{"indifferent", 10, 0, 0, social.EventParams{}},
		{"evenly matched", 10, 15, 0, social.EventParams{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventPolarity(tt.ours, tt.enemies, tt.disp); got != tt.want {
				t.Errorf("EventPolarity = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMaybeEmit(t *testing.T) {
	emitted := 0
	for seed := int64(0); seed < 300; seed++ {
		a := standard("a")
		a.BaseDispositions = map[social.FactionID]float64{"b": -100}
		w := newFakeWorld(a, standard("b"), standard("c"))
		w.disallowed["c"] = true
		b := testBrain(w, "a", seed)
		prime(b)

		intent := b.MaybeEmit()
		if intent == nil {
			continue
		}
		emitted++
		if intent.Target != "b" {
			t.Fatalf("seed %d: event targeted %s", seed, intent.Target)
		}
		if !intent.Params.OnlyNegative {
			t.Fatalf("seed %d: params = %+v, want negative only", seed, intent.Params)
		}
	}
	if emitted == 0 {
		t.Fatal("no events emitted")
	}
}

func TestPlayerRuledFactionNeedsFollowersDiplomacy(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		w := newFakeWorld(standard("a"), standard(social.PlayerFactionID))
		b := testBrain(w, "a", seed)
		b.cfg.FollowersDiplomacy = false
		prime(b)
		if intent := b.MaybeEmit(); intent != nil {
			t.Fatalf("seed %d: event with the player's faction: %+v", seed, intent)
		}
	}
}
