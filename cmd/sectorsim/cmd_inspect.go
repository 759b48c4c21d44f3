package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/engine"
	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/persistence"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/social"
	"github.com/talgya/sector-diplomacy/internal/tuning"
)

var inspectFlags struct {
	dbPath     string
	tuningPath string
	faction    string
	events     int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the saved sector, or one faction's view of it",
	RunE:  runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.dbPath, "db", defaultDBPath, "SQLite database path")
	f.StringVar(&inspectFlags.tuningPath, "tuning", "", "YAML tuning file")
	f.StringVar(&inspectFlags.faction, "faction", "", "Show this faction's dispositions")
	f.IntVar(&inspectFlags.events, "events", 10, "Recent events to list")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	tun, err := tuning.Load(inspectFlags.tuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	db, err := openDB(inspectFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := db.LoadState()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	sec := sector.Restore(snap.Sector, entropy.Shared())
	if err := tun.ApplyFactions(sec); err != nil {
		return fmt.Errorf("apply tuning: %w", err)
	}
	mgr := diplomacy.RestoreManager(snap.Diplomacy, tun.Diplomacy)
	mgr.Rehydrate(sec, entropy.Shared())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Date: %s\n", engine.SimTime(sec.Day))
	seed, ok, err := db.GetMeta(persistence.MetaSeed)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	if ok {
		fmt.Fprintf(out, "Seed: %s\n", seed)
	}

	if inspectFlags.faction != "" {
		return printFaction(cmd, sec, mgr, social.FactionID(inspectFlags.faction))
	}

	fmt.Fprintf(out, "Factions:\n")
	for _, id := range sec.LiveFactions() {
		enemies := sec.FactionsAtWarWith(id, social.WarQuery{IncludePirates: true, IncludeRestricted: true})
		fmt.Fprintf(out, "  %-14s weariness %7.0f  at war with %v\n", id, sec.WarWeariness(id, false), enemies)
	}

	if negs := mgr.Negotiations(); len(negs) > 0 {
		fmt.Fprintf(out, "Negotiations:\n")
		for _, n := range negs {
			kind := "ceasefire"
			if n.PeaceTreaty {
				kind = "peace treaty"
			}
			fmt.Fprintf(out, "  %s  %s offers %s, %s, %.1f days left\n", n.ID, n.Proposer, kind, n.State, n.DaysRemaining)
		}
	}

	events, err := db.RecentEvents(inspectFlags.events)
	if err != nil {
		return fmt.Errorf("recent events: %w", err)
	}
	if len(events) > 0 {
		fmt.Fprintf(out, "Recent events:\n")
		for _, e := range events {
			fmt.Fprintf(out, "  [%s] %s\n", engine.SimTime(e.Day), e.Description)
		}
	}
	return nil
}

func printFaction(cmd *cobra.Command, sec *sector.Sector, mgr *diplomacy.Manager, id social.FactionID) error {
	b, ok := mgr.Brain(id)
	if !ok {
		return fmt.Errorf("%w: %s", diplomacy.ErrUnknownFaction, id)
	}
	out := cmd.OutOrStdout()
	ours, theirs := b.Strength()
	fmt.Fprintf(out, "Faction: %s\n", id)
	fmt.Fprintf(out, "Strength: %.1f vs enemies %.1f\n", ours, theirs)
	fmt.Fprintf(out, "Enemies: %v\n", b.Enemies())

	type row struct {
		rival social.FactionID
		disp  diplomacy.Disposition
	}
	var rows []row
	for _, rival := range sec.LiveFactions() {
		if d, ok := b.Disposition(rival); ok {
			rows = append(rows, row{rival, d})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].disp.Value() < rows[j].disp.Value() })

	fmt.Fprintf(out, "Dispositions:\n")
	for _, r := range rows {
		fmt.Fprintf(out, "  %-14s %7.1f  relation %+.2f\n", r.rival, r.disp.Value(), sec.Relationship(id, r.rival))
		mods := r.disp.Modifiers()
		names := make([]string, 0, len(mods))
		for m := range mods {
			names = append(names, string(m))
		}
		sort.Strings(names)
		for _, m := range names {
			fmt.Fprintf(out, "      %-16s %+7.1f\n", m, mods[diplomacy.Modifier(m)])
		}
	}

	if cf := b.Ceasefires(); len(cf) > 0 {
		fmt.Fprintf(out, "Ceasefires:\n")
		for rival, days := range cf {
			fmt.Fprintf(out, "  %-14s %.1f days\n", rival, days)
		}
	}
	return nil
}
