package social

import (
	"encoding/json"
	"sort"
)

// Trait is a behavioral tag that bends a faction's diplomatic judgement.
type Trait string

const (
	TraitIrredentist   Trait = "irredentist"
	TraitSelfRighteous Trait = "self_righteous"
	TraitTemperamental Trait = "temperamental"
	TraitDislikesAI    Trait = "dislikes_ai"
	TraitHatesAI       Trait = "hates_ai"
	TraitLikesAI       Trait = "likes_ai"
	TraitEnvious       Trait = "envious"
	TraitSubmissive    Trait = "submissive"
	TraitNeutralist    Trait = "neutralist"
	TraitMonopolist    Trait = "monopolist"
	TraitHelpsAllies   Trait = "helps_allies"
	TraitLawAndOrder   Trait = "law_and_order"
	TraitAnarchist     Trait = "anarchist"
	TraitMonstrous     Trait = "monstrous"
	TraitPredatory     Trait = "predatory"
	TraitParanoid      Trait = "paranoid"
	TraitPacifist      Trait = "pacifist"
)

// TraitSet is an unordered set of traits.
type TraitSet map[Trait]struct{}

// NewTraitSet builds a set from the given traits.
func NewTraitSet(traits ...Trait) TraitSet {
	s := make(TraitSet, len(traits))
	for _, t := range traits {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the set. A nil set has no traits.
func (s TraitSet) Has(t Trait) bool {
	_, ok := s[t]
	return ok
}

// Sorted returns the traits in lexical order.
func (s TraitSet) Sorted() []Trait {
	out := make([]Trait, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON writes the set as a sorted list.
func (s TraitSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads the set from a list.
func (s *TraitSet) UnmarshalJSON(data []byte) error {
	var list []Trait
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = NewTraitSet(list...)
	return nil
}
