package diplomacy

import "github.com/talgya/sector-diplomacy/internal/social"

// Registry answers questions about who exists and what they are.
type Registry interface {
	IsFactionAlive(id social.FactionID) bool
	LiveFactions() []social.FactionID
	Faction(id social.FactionID) (*social.Faction, bool)
	IsDisallowed(id social.FactionID) bool
	HasAlternateController(id social.FactionID) bool
}

// Relations answers relationship and alliance queries between factions.
type Relations interface {
	Relationship(a, b social.FactionID) float64
	IsHostileTo(a, b social.FactionID) bool
	IsAtBest(a, b social.FactionID, level social.RepLevel) bool
	IsAtWorst(a, b social.FactionID, level social.RepLevel) bool
	IsAllied(a, b social.FactionID) bool
	AllianceMembers(id social.FactionID) []social.FactionID
}

// Economy answers market and power queries.
type Economy interface {
	Markets() []social.Market
	DominanceFactor(id social.FactionID) float64
	CompetitionFactor(a, b social.FactionID) float64
}

// Wars answers and adjusts war state.
type Wars interface {
	WarWeariness(id social.FactionID, decayEvents bool) float64
	ModifyWarWeariness(id social.FactionID, delta float64)
	FactionsAtWarWith(id social.FactionID, q social.WarQuery) []social.FactionID
	DaysSinceLastWar() float64
	OngoingInvasions() []social.Invasion
}

// Player describes the human-controlled side of the sector.
type Player interface {
	PlayerFaction() social.FactionID
	// PlayerFactionOfRecord is the faction the player acts for: their
	// commissioning faction if they hold one, otherwise their own.
	PlayerFactionOfRecord() social.FactionID
	CommissionFaction() (social.FactionID, bool)
	PlayerLevel() int
	HardMode() bool
}

// Events turns decisions into world effects.
type Events interface {
	CreateDiplomacyEvent(a, b social.FactionID, kind social.EventKind, params social.EventParams) (social.EventResult, error)
}

// World is everything the brain consults. It is owned elsewhere and read-mostly;
// the only writes are war weariness and diplomacy events.
type World interface {
	Registry
	Relations
	Economy
	Wars
	Player
	Events
}
