package diplomacy

// Config holds the tunables a brain reads. It is injected at construction and
// never mutated afterwards; each parameter has this struct as its only source.
type Config struct {
	// BaseIntervalDays is the long-cycle period, jittered ±5% per cycle.
	BaseIntervalDays float64 `yaml:"base_interval_days"`

	// MinDaysBetweenWars gates both war and peace decisions sector-wide.
	MinDaysBetweenWars float64 `yaml:"min_days_between_wars"`

	MinWarWearinessForPeace          float64 `yaml:"min_war_weariness_for_peace"`
	WarWearinessDivisor              float64 `yaml:"war_weariness_divisor"`
	WarWearinessDivisorModPerLevel   float64 `yaml:"war_weariness_divisor_mod_per_level"`
	WarWearinessCeasefireReduction   float64 `yaml:"war_weariness_ceasefire_reduction"`
	WarWearinessPeaceTreatyReduction float64 `yaml:"war_weariness_peace_treaty_reduction"`
	PeaceTreatyChance                float64 `yaml:"peace_treaty_chance"`

	// PlayerOfferCooldownDays throttles ceasefire offers to the human faction.
	PlayerOfferCooldownDays float64 `yaml:"player_offer_cooldown_days"`

	// A player negotiation's deadline is drawn from [NegotiationMinDays, NegotiationMaxDays).
	NegotiationMinDays float64 `yaml:"negotiation_min_days"`
	NegotiationMaxDays float64 `yaml:"negotiation_max_days"`

	// NegotiationDisplayDays keeps a resolved negotiation visible before it ends.
	NegotiationDisplayDays float64 `yaml:"negotiation_display_days"`

	// HardModeDispositionMod is the flat "hardmode" modifier.
	HardModeDispositionMod float64 `yaml:"hard_mode_disposition_mod"`

	AllowPirateWars           bool `yaml:"allow_pirate_wars"`
	FollowersDiplomacy        bool `yaml:"followers_diplomacy"`
	AcceptCeasefiresOnTimeout bool `yaml:"accept_ceasefires_on_timeout"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		BaseIntervalDays:                 15,
		MinDaysBetweenWars:               30,
		MinWarWearinessForPeace:          5000,
		WarWearinessDivisor:              10000,
		WarWearinessDivisorModPerLevel:   200,
		WarWearinessCeasefireReduction:   3000,
		WarWearinessPeaceTreatyReduction: 6000,
		PeaceTreatyChance:                0.3,
		PlayerOfferCooldownDays:          60,
		NegotiationMinDays:               14,
		NegotiationMaxDays:               21,
		NegotiationDisplayDays:           3,
		HardModeDispositionMod:           -25,
		AllowPirateWars:                  false,
		FollowersDiplomacy:               true,
		AcceptCeasefiresOnTimeout:        false,
	}
}

// peaceDivisor is the weariness divisor for the accept/reject roll.
func (c Config) peaceDivisor(playerLevel int) float64 {
	d := c.WarWearinessDivisor + c.WarWearinessDivisorModPerLevel*float64(playerLevel)
	if d <= 0 {
		return 1
	}
	return d
}

func (c Config) wearinessReduction(peaceTreaty bool) float64 {
	if peaceTreaty {
		return c.WarWearinessPeaceTreatyReduction
	}
	return c.WarWearinessCeasefireReduction
}
