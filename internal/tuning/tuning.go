// Package tuning loads the optional YAML file that overrides simulation
// defaults.
package tuning

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/social"
)

// Sentinel errors returned by Parse and ApplyFactions.
var (
	ErrOutOfRange     = errors.New("tuning value out of range")
	ErrUnknownFaction = errors.New("tuning names an unknown faction")
)

type Tuning struct {
	Diplomacy diplomacy.Config   `yaml:"diplomacy"`
	Sector    sector.GenConfig   `yaml:"sector"`
	Player    sector.PlayerState `yaml:"player"`
	Factions  Factions           `yaml:"factions"`
}

// Factions lists factions taken out of the brains' hands.
type Factions struct {
	AlternateController []social.FactionID `yaml:"alternate_controller"` // run by another strategic AI
	Disallowed          []social.FactionID `yaml:"disallowed"`           // no diplomacy at all
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		Diplomacy: diplomacy.DefaultConfig(),
		Sector:    sector.DefaultGenConfig(),
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value. An empty path returns the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := Parse(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes YAML onto t, rejecting unknown keys.
func Parse(raw []byte, t *Tuning) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return t.validate()
}

func (t Tuning) validate() error {
	d := t.Diplomacy
	checks := []struct {
		ok    bool
		key   string
		value any
	}{
		{d.BaseIntervalDays > 0, "diplomacy.base_interval_days", d.BaseIntervalDays},
		{d.MinDaysBetweenWars >= 0, "diplomacy.min_days_between_wars", d.MinDaysBetweenWars},
		{d.MinWarWearinessForPeace >= 0, "diplomacy.min_war_weariness_for_peace", d.MinWarWearinessForPeace},
		{d.WarWearinessDivisor > 0, "diplomacy.war_weariness_divisor", d.WarWearinessDivisor},
		{d.WarWearinessDivisorModPerLevel >= 0, "diplomacy.war_weariness_divisor_mod_per_level", d.WarWearinessDivisorModPerLevel},
		{d.WarWearinessCeasefireReduction >= 0, "diplomacy.war_weariness_ceasefire_reduction", d.WarWearinessCeasefireReduction},
		{d.WarWearinessPeaceTreatyReduction >= 0, "diplomacy.war_weariness_peace_treaty_reduction", d.WarWearinessPeaceTreatyReduction},
		{d.PeaceTreatyChance >= 0 && d.PeaceTreatyChance <= 1, "diplomacy.peace_treaty_chance", d.PeaceTreatyChance},
		{d.PlayerOfferCooldownDays > 0, "diplomacy.player_offer_cooldown_days", d.PlayerOfferCooldownDays},
		{d.NegotiationMinDays > 0, "diplomacy.negotiation_min_days", d.NegotiationMinDays},
		{d.NegotiationMaxDays >= d.NegotiationMinDays, "diplomacy.negotiation_max_days", d.NegotiationMaxDays},
		{d.NegotiationDisplayDays > 0, "diplomacy.negotiation_display_days", d.NegotiationDisplayDays},
		{t.Sector.MarketsPerFaction > 0, "sector.markets_per_faction", t.Sector.MarketsPerFaction},
		{t.Sector.ConqueredFraction >= 0 && t.Sector.ConqueredFraction <= 1, "sector.conquered_fraction", t.Sector.ConqueredFraction},
		{t.Player.Level >= 0, "player.level", t.Player.Level},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%s = %v: %w", c.key, c.value, ErrOutOfRange)
		}
	}
	return nil
}

// ApplyPlayer copies the player settings onto a freshly generated sector.
func (t Tuning) ApplyPlayer(s *sector.Sector) {
	s.Player.Commission = t.Player.Commission
	s.Player.Level = t.Player.Level
	s.Player.HardMode = t.Player.HardMode
}

// ApplyFactions makes the sector's controller flags match the lists exactly.
func (t Tuning) ApplyFactions(s *sector.Sector) error {
	alternate, err := factionSet(s, t.Factions.AlternateController)
	if err != nil {
		return err
	}
	disallowed, err := factionSet(s, t.Factions.Disallowed)
	if err != nil {
		return err
	}
	for _, id := range s.LiveFactions() {
		s.SetAlternateController(id, alternate[id])
		s.SetDisallowed(id, disallowed[id])
	}
	return nil
}

func factionSet(s *sector.Sector, ids []social.FactionID) (map[social.FactionID]bool, error) {
	set := make(map[social.FactionID]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.Faction(id); !ok {
			return nil, fmt.Errorf("%s: %w", id, ErrUnknownFaction)
		}
		set[id] = true
	}
	return set, nil
}
