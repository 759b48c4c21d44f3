package social

// RepLevel is a coarse tier of a relationship value, ordered worst to best.
type RepLevel int

const (
	RepVengeful RepLevel = iota
	RepHostile
	RepInhospitable
	RepSuspicious
	RepNeutral
	RepFavorable
	RepWelcoming
	RepFriendly
	RepCooperative
)

var repNames = [...]string{
	"vengeful", "hostile", "inhospitable", "suspicious", "neutral",
	"favorable", "welcoming", "friendly", "cooperative",
}

func (l RepLevel) String() string {
	if l < RepVengeful || l > RepCooperative {
		return "unknown"
	}
	return repNames[l]
}

// HostileThreshold is the relationship at or below which two factions are at war.
const HostileThreshold = -0.5

// LevelFor maps a relationship value on the [-1, 1] scale to its tier.
func LevelFor(rel float64) RepLevel {
	switch {
	case rel <= -0.75:
		return RepVengeful
	case rel <= HostileThreshold:
		return RepHostile
	case rel <= -0.25:
		return RepInhospitable
	case rel <= -0.1:
		return RepSuspicious
	case rel < 0.1:
		return RepNeutral
	case rel < 0.25:
		return RepFavorable
	case rel < 0.5:
		return RepWelcoming
	case rel < 0.75:
		return RepFriendly
	default:
		return RepCooperative
	}
}

// IsAtBest reports whether rel sits at level or worse.
func IsAtBest(rel float64, level RepLevel) bool {
	return LevelFor(rel) <= level
}

// IsAtWorst reports whether rel sits at level or better.
func IsAtWorst(rel float64, level RepLevel) bool {
	return LevelFor(rel) >= level
}
