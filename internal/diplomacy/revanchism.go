package diplomacy

import (
	"math"

	"github.com/talgya/sector-diplomacy/internal/social"
)

// ComputeRevanchism scores, per current owner, how much of owner's former
// territory they hold. Each rival is capped at RevanchismFactionMax; when the
// raw total exceeds RevanchismMax every bucket is scaled by RevanchismMax/total.
// The player never accrues revanchism.
func ComputeRevanchism(owner, player social.FactionID, markets []social.Market) map[social.FactionID]float64 {
	out := make(map[social.FactionID]float64)
	if owner == player {
		return out
	}

	buckets := make(map[social.FactionID]float64)
	total := 0.0
	for _, m := range markets {
		if m.Owner == owner || m.Owner == "" {
			continue
		}
		if !m.WasOriginalOwner(owner) || m.Size <= 0 {
			continue
		}
		fromMarket := float64(m.Size) * RevanchismSizeMult
		buckets[m.Owner] = math.Min(buckets[m.Owner]+fromMarket, RevanchismFactionMax)
		total += fromMarket
	}

	mult := 1.0
	if total > RevanchismMax {
		mult = RevanchismMax / total
	}
	for rival, v := range buckets {
		out[rival] = math.Max(0, math.Min(v*mult, RevanchismFactionMax))
	}
	return out
}
