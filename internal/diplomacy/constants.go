// Package diplomacy implements the autonomous foreign-policy brain of AI factions:
// disposition scoring, revanchism, strength estimates, war and peace decisions,
// player ceasefire negotiations and flavor events, driven on two cadences.
package diplomacy

// Disposition weights.
const (
	RelationsMult           = 25.0
	AlignmentMult           = 2.0
	AlignmentDiplomaticMult = 1.5
	CommonEnemyMult         = 12.5
	EventMult               = 80.0
	EventPeaceMult          = 40.0
	EventDecrementPerDay    = 0.2
	DominanceMult           = 25.0
	MonstrousPenalty        = -10.0
	FreePortPenaltyMult     = 0.4
	FreePortBonusMult       = 0.2
	EnemyOfAllyPenaltyMult  = 7.5
	CompetitionPenaltyMult  = 0.12
	AIPenaltyMult           = 0.5
	TemperamentalMult       = 1.25
	IrredentistMult         = 1.5
	EnviousMult             = 1.5
	SelfRighteousMult       = 2.0
	MaxDispositionMagnitude = 1000.0
)

// Revanchism limits.
const (
	RevanchismSizeMult   = 2.0
	RevanchismFactionMax = 40.0
	RevanchismMax        = 50.0
)

// War and peace.
const (
	MaxDispositionForWar = -20.0
	MilitarismWarMult    = 1.0
	MaxWearinessForWar   = 7500.0
	WarDominanceMult     = 40.0
	WarScoreThreshold    = 40.0
	WarScoreJitter       = 5.0
	CeasefireLength      = 150.0
	MaxPeaceTries        = 3
)

// Random events.
const (
	LikeThreshold           = 15.0
	DislikeThreshold        = -20.0
	EventSkipChance         = 0.5
	EventChanceExponentBase = 0.8
	MaxEventCandidates      = 3
	OutmatchedRatio         = 1.5
)

// Scheduler.
const (
	ShortIntervalMin = 0.45
	ShortIntervalMax = 0.55
	IntervalJitter   = 0.05
)

