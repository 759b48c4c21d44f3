package diplomacy

import "github.com/talgya/sector-diplomacy/internal/social"

// DecisionKind says which engine produced a Decision.
type DecisionKind uint8

const (
	DecisionPeace DecisionKind = iota + 1
	DecisionWar
	DecisionEvent
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionPeace:
		return "peace"
	case DecisionWar:
		return "war"
	case DecisionEvent:
		return "event"
	default:
		return "none"
	}
}

// Decision is what a long cycle did. At most one of War, Peace and Event is
// set. A peace offer to the player carries its Negotiation and no Result.
type Decision struct {
	Kind   DecisionKind
	Owner  social.FactionID
	Target social.FactionID

	War         *WarIntent
	Peace       *PeaceIntent
	Event       *EventIntent
	Negotiation *CeasefireNegotiation

	Result social.EventResult
}
