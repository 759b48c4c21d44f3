package social

// WarQuery narrows a "who is at war with this faction" lookup.
type WarQuery struct {
	IncludePirates    bool // include pirate factions
	IncludeRestricted bool // include zealot factions
	CeasefireableOnly bool // only factions permitted to ceasefire with the subject
}

// EventKind names a diplomacy event. The empty kind lets the world pick one.
type EventKind string

const (
	EventRandom      EventKind = ""
	EventDeclareWar  EventKind = "declare_war"
	EventCeasefire   EventKind = "ceasefire"
	EventPeaceTreaty EventKind = "peace_treaty"
)

// EventParams biases randomly chosen events.
type EventParams struct {
	OnlyPositive bool
	OnlyNegative bool
}

// EventResult reports what an enacted diplomacy event did.
type EventResult struct {
	ID    string    `json:"id"`
	Kind  EventKind `json:"kind"`
	Name  string    `json:"name"`
	Delta float64   `json:"delta"` // relationship change, usable for chaining
}
