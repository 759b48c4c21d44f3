package diplomacy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/talgya/sector-diplomacy/internal/social"
)

func TestComputeDispositionIsPureAtZeroDays(t *testing.T) {
	in := DispositionInputs{
		Base:            -10,
		HasBase:         true,
		Relationship:    0.3,
		OwnAlignments:   social.Alignments{social.AlignMilitarist: 1},
		RivalAlignments: social.Alignments{social.AlignMilitarist: -0.5},
		CommonEnemies:   2,
		Revanchism:      12,
		Dominance:       0.2,
		Traits:          social.NewTraitSet(social.TraitEnvious, social.TraitIrredentist),
	}
	prev := NewDisposition(map[Modifier]float64{ModEvents: 16})

	first := ComputeDisposition(prev, in, 0)
	second := ComputeDisposition(prev, in, 0)
	if diff := cmp.Diff(first.Modifiers(), second.Modifiers()); diff != "" {
		t.Fatalf("recompute changed modifiers (-first +second):\n%s", diff)
	}
	if events, _ := first.Get(ModEvents); events != 16 {
		t.Errorf("events = %f, want 16 carried over undecayed", events)
	}
}

func TestDispositionValueIsSumOfModifiers(t *testing.T) {
	d := NewDisposition(map[Modifier]float64{
		ModBase:         -5,
		ModRelationship: 12.5,
		ModRevanchism:   -20,
		ModTraits:       3,
	})
	if got, want := d.Value(), -9.5; got != want {
		t.Errorf("Value() = %f, want %f", got, want)
	}
}

func TestNewDispositionDropsUnknownModifiers(t *testing.T) {
	d := NewDisposition(map[Modifier]float64{ModBase: 1, "bribes": 100})
	if _, ok := d.Get("bribes"); ok {
		t.Error("unknown modifier kept")
	}
	if d.Value() != 1 {
		t.Errorf("Value() = %f, want 1", d.Value())
	}
}

func TestDispositionClamped(t *testing.T) {
	d := NewDisposition(map[Modifier]float64{ModBase: 5000})
	if d.Value() != MaxDispositionMagnitude {
		t.Errorf("Value() = %f, want %f", d.Value(), MaxDispositionMagnitude)
	}
}

func TestEventsDecayTowardZero(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		days, out float64
	}{
		{"positive", 10, 20, 6},
		{"negative", -10, 20, -6},
		{"does not cross zero", -3, 20, 0},
		{"no time", 7, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decayEvents(tt.start, tt.days); got != tt.out {
				t.Errorf("decayEvents(%v, %v) = %v, want %v", tt.start, tt.days, got, tt.out)
			}
		})
	}
}

func TestAlignmentScore(t *testing.T) {
	tests := []struct {
		name         string
		ours, theirs social.Alignments
		want         float64
	}{
		{"shared leaning", social.Alignments{social.AlignMilitarist: 1}, social.Alignments{social.AlignMilitarist: 0.5}, 3},
		{"opposed leaning", social.Alignments{social.AlignMilitarist: 1}, social.Alignments{social.AlignMilitarist: -1}, -4},
		{"diplomatic bonus", social.Alignments{social.AlignDiplomatic: 1}, social.Alignments{social.AlignDiplomatic: 1}, 10},
		{"no overlap", social.Alignments{social.AlignCorporate: 1}, social.Alignments{social.AlignMoralist: 1}, 0},
		{"nil", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlignmentScore(tt.ours, tt.theirs); got != tt.want {
				t.Errorf("AlignmentScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTraitEffects(t *testing.T) {
	base := DispositionInputs{Relationship: 0.4, Dominance: 0.4, Revanchism: 10}

	tests := []struct {
		name   string
		traits []social.Trait
		rival  []social.Trait
		inputs TraitInputs
		want   map[Modifier]float64
	}{
		{
			name:   "temperamental scales relationship",
			traits: []social.Trait{social.TraitTemperamental},
			want:   map[Modifier]float64{ModRelationship: 12.5, ModDominance: -10, ModRevanchism: -10},
		},
		{
			name:   "irredentist scales revanchism",
			traits: []social.Trait{social.TraitIrredentist},
			want:   map[Modifier]float64{ModRelationship: 10, ModDominance: -10, ModRevanchism: -15},
		},
		{
			name:   "submissive flips dominance",
			traits: []social.Trait{social.TraitSubmissive},
			want:   map[Modifier]float64{ModRelationship: 10, ModDominance: 10, ModRevanchism: -10},
		},
		{
			name:   "neutralist ignores dominance",
			traits: []social.Trait{social.TraitNeutralist, social.TraitEnvious},
			want:   map[Modifier]float64{ModRelationship: 10, ModRevanchism: -10},
		},
		{
			name:   "dislikes AI shadows likes AI",
			traits: []social.Trait{social.TraitLikesAI, social.TraitDislikesAI},
			inputs: TraitInputs{AICoreUsage: 10},
			want:   map[Modifier]float64{ModRelationship: 10, ModDominance: -10, ModRevanchism: -10, ModTraits: -2.5},
		},
		{
			name:   "law and order shadows anarchist",
			traits: []social.Trait{social.TraitAnarchist, social.TraitLawAndOrder},
			inputs: TraitInputs{FreePortSize: 5},
			want:   map[Modifier]float64{ModRelationship: 10, ModDominance: -10, ModRevanchism: -10, ModTraits: -2},
		},
		{
			name:  "monstrous rival",
			rival: []social.Trait{social.TraitMonstrous},
			want:  map[Modifier]float64{ModRelationship: 10, ModDominance: -10, ModRevanchism: -10, ModTraits: MonstrousPenalty},
		},
		{
			name:   "helps allies",
			traits: []social.Trait{social.TraitHelpsAllies},
			inputs: TraitInputs{AllyEnemyScore: 1.5},
			want:   map[Modifier]float64{ModRelationship: 10, ModDominance: -10, ModRevanchism: -10, ModTraits: -11.25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Traits = social.NewTraitSet(tt.traits...)
			in.RivalTraits = social.NewTraitSet(tt.rival...)
			in.TraitInputs = tt.inputs
			got := ComputeDisposition(Disposition{}, in, 0).Modifiers()

			// Zero-valued modifiers are present but uninteresting here.
			for m, v := range got {
				if v == 0 {
					delete(got, m)
				}
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("modifiers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
