package social

// Alignment is a political axis on which factions lean positive or negative.
type Alignment string

const (
	AlignCorporate    Alignment = "corporate"
	AlignTechnocratic Alignment = "technocratic"
	AlignMilitarist   Alignment = "militarist"
	AlignDiplomatic   Alignment = "diplomatic"
	AlignMoralist     Alignment = "moralist"
	AlignIdeological  Alignment = "ideological"
	AlignHierarchical Alignment = "hierarchical"
)

// AllAlignments lists every axis in a fixed order.
var AllAlignments = []Alignment{
	AlignCorporate,
	AlignTechnocratic,
	AlignMilitarist,
	AlignDiplomatic,
	AlignMoralist,
	AlignIdeological,
	AlignHierarchical,
}

// Alignments maps axis to lean (roughly -2..+2). Missing axes read as zero.
type Alignments map[Alignment]float64

// Get returns the lean on an axis; nil maps are valid and read as neutral.
func (a Alignments) Get(axis Alignment) float64 {
	if a == nil {
		return 0
	}
	return a[axis]
}
