// Factions: the political entities of the sector and the seed roster.
package social

// FactionID is a stable identifier for a faction. It is owned by the world and
// referenced by value everywhere else.
type FactionID string

// FactionKind categorizes how a faction participates in sector politics.
type FactionKind uint8

const (
	KindStandard FactionKind = iota // Ordinary polity
	KindPirate                      // Raiders, excluded from wars unless pirate wars are allowed
	KindZealot                      // Closed theocracy, restricted like pirates for war decisions
)

// IsRestricted reports whether the kind is barred from opportunistic wars
// when pirate wars are disabled.
func (k FactionKind) IsRestricted() bool {
	return k == KindPirate || k == KindZealot
}

func (k FactionKind) String() string {
	switch k {
	case KindPirate:
		return "pirate"
	case KindZealot:
		return "zealot"
	default:
		return "standard"
	}
}

// Faction is the static description of a faction: who it is and what it believes.
type Faction struct {
	ID         FactionID   `json:"id"`
	Name       string      `json:"name"`
	Kind       FactionKind `json:"kind"`
	Alignments Alignments  `json:"alignments"`
	Traits     TraitSet    `json:"traits"`

	// Configured starting disposition toward specific factions.
	BaseDispositions map[FactionID]float64 `json:"base_dispositions,omitempty"`

	// RandomRelationships disables the base disposition modifier.
	RandomRelationships bool `json:"random_relationships"`

	// NoCeasefire lists factions this faction will never ceasefire with.
	NoCeasefire []FactionID `json:"no_ceasefire,omitempty"`
}

// CanCeasefireWith reports whether the faction is permitted to ceasefire with other.
func (f *Faction) CanCeasefireWith(other FactionID) bool {
	for _, id := range f.NoCeasefire {
		if id == other {
			return false
		}
	}
	return true
}

// PlayerFactionID is the human-controlled faction.
const PlayerFactionID FactionID = "player"

// SeedFactions creates the initial roster of the sector.
func SeedFactions() []*Faction {
	return []*Faction{
		{
			ID:   "hegemony",
			Name: "The Hegemony",
			Kind: KindStandard,
			Alignments: Alignments{
				AlignMilitarist:   1.0,
				AlignHierarchical: 1.0,
				AlignDiplomatic:   -0.5,
				AlignIdeological:  0.5,
			},
			Traits:           NewTraitSet(TraitParanoid, TraitLawAndOrder, TraitDislikesAI),
			BaseDispositions: map[FactionID]float64{"tritachyon": -10, "pirates": -20},
		},
		{
			ID:   "tritachyon",
			Name: "Tri-Tachyon Corporation",
			Kind: KindStandard,
			Alignments: Alignments{
				AlignCorporate:    1.0,
				AlignTechnocratic: 1.0,
				AlignMoralist:     -0.5,
			},
			Traits:           NewTraitSet(TraitMonopolist, TraitLikesAI, TraitPredatory),
			BaseDispositions: map[FactionID]float64{"hegemony": -10, "luddic_church": -15},
		},
		{
			ID:   "persean",
			Name: "Persean League",
			Kind: KindStandard,
			Alignments: Alignments{
				AlignDiplomatic:  1.0,
				AlignCorporate:   0.5,
				AlignIdeological: 0.5,
			},
			Traits: NewTraitSet(TraitHelpsAllies, TraitEnvious),
		},
		{
			ID:   "sindrian",
			Name: "Sindrian Diktat",
			Kind: KindStandard,
			Alignments: Alignments{
				AlignMilitarist:   1.0,
				AlignHierarchical: 1.5,
				AlignDiplomatic:   -1.0,
			},
			Traits: NewTraitSet(TraitIrredentist, TraitSelfRighteous, TraitTemperamental),
		},
		{
			ID:   "luddic_church",
			Name: "Church of Galactic Redemption",
			Kind: KindStandard,
			Alignments: Alignments{
				AlignMoralist:    1.5,
				AlignIdeological: 1.0,
				AlignDiplomatic:  0.5,
			},
			Traits: NewTraitSet(TraitHatesAI, TraitPacifist, TraitLawAndOrder),
		},
		{
			ID:   "luddic_path",
			Name: "Luddic Path",
			Kind: KindZealot,
			Alignments: Alignments{
				AlignMoralist:    1.0,
				AlignIdeological: 1.5,
				AlignMilitarist:  0.5,
			},
			Traits:      NewTraitSet(TraitHatesAI, TraitMonstrous),
			NoCeasefire: []FactionID{"tritachyon"},
		},
		{
			ID:   "pirates",
			Name: "Pirates",
			Kind: KindPirate,
			Alignments: Alignments{
				AlignMilitarist:   0.5,
				AlignHierarchical: -1.0,
				AlignMoralist:     -1.0,
			},
			Traits:              NewTraitSet(TraitAnarchist, TraitMonstrous),
			RandomRelationships: true,
		},
		{
			ID:   PlayerFactionID,
			Name: "Player",
			Kind: KindStandard,
		},
	}
}
