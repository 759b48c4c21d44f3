// Sector generation using layered simplex noise.
// Places each faction's markets on a ring of star systems and derives market
// size, free port status, AI core usage and industries from noise fields.
package sector

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// GenConfig holds sector generation parameters.
type GenConfig struct {
	Seed              int64   `yaml:"seed"`                // Noise seed (0 = random)
	MarketsPerFaction int     `yaml:"markets_per_faction"` // Markets founded by each non-player faction
	MaxMarketSize     int     `yaml:"max_market_size"`     // Largest market size
	ConqueredFraction float64 `yaml:"conquered_fraction"`  // Share of markets that start in a neighbor's hands
}

// DefaultGenConfig returns the standard sector layout.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:              0,
		MarketsPerFaction: 4,
		MaxMarketSize:     8,
		ConqueredFraction: 0.15,
	}
}

var industries = []string{"farming", "mining", "refining", "heavy_industry", "fuel", "light_industry", "tech"}

// Generate creates a sector populated with the seed factions, their markets and
// starting relationships.
func Generate(cfg GenConfig, rng entropy.Source) *Sector {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.MaxMarketSize < 3 {
		cfg.MaxMarketSize = 3
	}

	sizeNoise := opensimplex.NewNormalized(seed)
	vice := opensimplex.NewNormalized(seed + 1)
	tech := opensimplex.NewNormalized(seed + 2)
	industry := opensimplex.NewNormalized(seed + 3)

	factions := social.SeedFactions()
	var founders []social.FactionID
	for _, f := range factions {
		if f.ID != social.PlayerFactionID {
			founders = append(founders, f.ID)
		}
	}

	var markets []social.Market
	total := len(founders) * cfg.MarketsPerFaction
	for i := 0; i < total; i++ {
		owner := founders[i/cfg.MarketsPerFaction]
		// Systems sit on a ring; neighbors in noise space are neighbors in the sector.
		angle := 2 * math.Pi * float64(i) / float64(total)
		x, y := math.Cos(angle)*8, math.Sin(angle)*8

		size := 3 + int(octaveNoise(sizeNoise, x, y, 3, 0.15, 0.5)*float64(cfg.MaxMarketSize-2))
		if size > cfg.MaxMarketSize {
			size = cfg.MaxMarketSize
		}
		m := social.Market{
			ID:            social.MarketID(fmt.Sprintf("%s-%d", owner, i%cfg.MarketsPerFaction)),
			Name:          fmt.Sprintf("%s %s", systemName(sizeNoise, x, y), roman(i%cfg.MarketsPerFaction+1)),
			Owner:         owner,
			OriginalOwner: owner,
			Size:          size,
			FreePort:      octaveNoise(vice, x, y, 2, 0.2, 0.5) > 0.62,
			AICoreUsage:   math.Round(octaveNoise(tech, x, y, 2, 0.2, 0.5) * 10),
		}
		for j, name := range industries {
			if octaveNoise(industry, x+float64(j)*13, y, 2, 0.25, 0.5) > 0.55 {
				m.Industries = append(m.Industries, name)
			}
		}
		markets = append(markets, m)
	}

	// Some border systems start under a neighbor's flag.
	if cfg.ConqueredFraction > 0 {
		for i := range markets {
			if !entropy.Chance(rng, cfg.ConqueredFraction) {
				continue
			}
			next := markets[(i+cfg.MarketsPerFaction)%len(markets)].OriginalOwner
			if next != markets[i].OriginalOwner {
				markets[i].Owner = next
			}
		}
	}

	s := New(factions, markets, rng)
	seedRelations(s)
	return s
}

// seedRelations sets the starting political map.
func seedRelations(s *Sector) {
	s.SetRelation("hegemony", "tritachyon", -0.3)   // cold war
	s.SetRelation("hegemony", "persean", -0.2)      // rivals
	s.SetRelation("hegemony", "luddic_church", 0.3) // tolerated
	s.SetRelation("hegemony", "sindrian", -0.1)     // wary
	s.SetRelation("tritachyon", "persean", 0.2)     // trade partners
	s.SetRelation("tritachyon", "luddic_church", -0.4)
	s.SetRelation("persean", "sindrian", 0.3)
	s.SetRelation("luddic_church", "luddic_path", 0.1)
	s.SetRelation("sindrian", "luddic_church", -0.2)

	s.SetRelation("luddic_path", "tritachyon", -0.65)
	s.SetRelation("luddic_path", "hegemony", -0.55)

	// Pirates raid everyone, the Path included, though less eagerly.
	for _, id := range s.LiveFactions() {
		if id != "pirates" {
			s.SetRelation("pirates", id, -0.65)
		}
	}
	s.SetRelation("pirates", "luddic_path", -0.3)
}

// octaveNoise samples multi-octave simplex noise normalized to [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxVal
}

var syllables = []string{"ka", "tor", "ve", "lun", "sa", "rix", "mo", "dar", "eth", "qua", "zen", "ori"}

func systemName(n opensimplex.Noise, x, y float64) string {
	a := int(n.Eval2(x*3.1, y*3.1) * float64(len(syllables)))
	b := int(n.Eval2(y*2.3, x*2.3) * float64(len(syllables)))
	a = min(max(a, 0), len(syllables)-1)
	b = min(max(b, 0), len(syllables)-1)
	name := syllables[a] + syllables[b]
	return strings.ToUpper(name[:1]) + name[1:]
}

func roman(n int) string {
	numerals := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}
	if n >= 1 && n <= len(numerals) {
		return numerals[n-1]
	}
	return fmt.Sprint(n)
}
