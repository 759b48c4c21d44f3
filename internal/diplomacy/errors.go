package diplomacy

import "errors"

var (
	ErrNotHydrated         = errors.New("diplomacy: brain not rehydrated")
	ErrNegotiationResolved = errors.New("diplomacy: negotiation already resolved")
	ErrUnknownNegotiation  = errors.New("diplomacy: unknown negotiation")
	ErrUnknownFaction      = errors.New("diplomacy: unknown faction")
)
