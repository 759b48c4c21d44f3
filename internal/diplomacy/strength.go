package diplomacy

import "github.com/talgya/sector-diplomacy/internal/social"

// FactionStrength sums the faction's market sizes plus half its allies'.
func FactionStrength(id social.FactionID, allies []social.FactionID, markets []social.Market) float64 {
	allied := make(map[social.FactionID]bool, len(allies))
	for _, a := range allies {
		if a != id {
			allied[a] = true
		}
	}
	str := 0.0
	for _, m := range markets {
		switch {
		case m.Owner == id:
			str += float64(m.Size)
		case allied[m.Owner]:
			str += float64(m.Size) / 2
		}
	}
	return str
}

// EnemyStrength sums the market sizes of every listed enemy.
func EnemyStrength(enemies []social.FactionID, markets []social.Market) float64 {
	set := make(map[social.FactionID]bool, len(enemies))
	for _, e := range enemies {
		set[e] = true
	}
	str := 0.0
	for _, m := range markets {
		if set[m.Owner] {
			str += float64(m.Size)
		}
	}
	return str
}

// StrengthRatio compares our position against a prospective target. Our
// existing enemies count fully against us while the target's enemies count
// half in our favor, which discourages dogpiles.
func StrengthRatio(own, ownEnemies, target, targetEnemies float64) float64 {
	denom := target + ownEnemies
	if denom < 1 {
		denom = 1
	}
	return (own + targetEnemies*0.5) / denom
}

// strengthOf estimates a faction's strength against the world.
func strengthOf(w World, id social.FactionID, markets []social.Market) float64 {
	return FactionStrength(id, w.AllianceMembers(id), markets)
}

// enemyStrengthOf estimates the combined strength of a faction's current enemies.
func enemyStrengthOf(w World, cfg Config, id social.FactionID, markets []social.Market) float64 {
	enemies := w.FactionsAtWarWith(id, social.WarQuery{
		IncludePirates:    cfg.AllowPirateWars,
		CeasefireableOnly: true,
	})
	return EnemyStrength(enemies, markets)
}
