package social

// MarketID identifies a market (an inhabited colony with an economy).
type MarketID string

// Market is the slice of economy state diplomacy cares about.
type Market struct {
	ID            MarketID  `json:"id"`
	Name          string    `json:"name"`
	Owner         FactionID `json:"owner"`
	OriginalOwner FactionID `json:"original_owner"`
	Size          int       `json:"size"`
	FreePort      bool      `json:"free_port"`
	AICoreUsage   float64   `json:"ai_core_usage"`
	Industries    []string  `json:"industries,omitempty"`
}

// WasOriginalOwner reports whether f founded or first held the market.
func (m Market) WasOriginalOwner(f FactionID) bool {
	return m.OriginalOwner != "" && m.OriginalOwner == f
}

// Invasion is an ongoing ground assault of one faction's market by another.
type Invasion struct {
	Attacker FactionID `json:"attacker"`
	Defender FactionID `json:"defender"`
	Target   MarketID  `json:"target"`
	DaysLeft float64   `json:"days_left"`
}
