package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/talgya/sector-diplomacy/internal/diplomacy"
	"github.com/talgya/sector-diplomacy/internal/engine"
	"github.com/talgya/sector-diplomacy/internal/entropy"
	"github.com/talgya/sector-diplomacy/internal/persistence"
	"github.com/talgya/sector-diplomacy/internal/sector"
	"github.com/talgya/sector-diplomacy/internal/tuning"
)

func openDB(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return persistence.Open(path)
}

// loadSimulation restores the saved simulation, or generates a fresh sector
// when the database is empty. fresh reports which one happened.
func loadSimulation(db *persistence.DB, tun tuning.Tuning, rng entropy.Source) (sim *engine.Simulation, fresh bool, err error) {
	snap, err := db.LoadState()
	switch {
	case errors.Is(err, persistence.ErrNoState):
		slog.Info("no saved state found, generating new sector", "seed", tun.Sector.Seed)
		sec := sector.Generate(tun.Sector, rng)
		tun.ApplyPlayer(sec)
		if err := tun.ApplyFactions(sec); err != nil {
			return nil, false, fmt.Errorf("apply tuning: %w", err)
		}
		if err := db.SaveMeta(persistence.MetaSeed, strconv.FormatInt(tun.Sector.Seed, 10)); err != nil {
			return nil, false, fmt.Errorf("save seed: %w", err)
		}
		mgr := diplomacy.NewManager(tun.Diplomacy, sec, rng)
		return engine.NewSimulation(sec, mgr), true, nil
	case err != nil:
		return nil, false, fmt.Errorf("load state: %w", err)
	}

	sec := sector.Restore(snap.Sector, rng)
	if err := tun.ApplyFactions(sec); err != nil {
		return nil, false, fmt.Errorf("apply tuning: %w", err)
	}
	mgr := diplomacy.RestoreManager(snap.Diplomacy, tun.Diplomacy)
	mgr.Rehydrate(sec, rng)
	slog.Info("sector state restored",
		"date", engine.SimTime(sec.Day),
		"factions", len(sec.LiveFactions()),
		"negotiations", len(mgr.Negotiations()),
	)
	return engine.NewSimulation(sec, mgr), false, nil
}

func saveSimulation(db *persistence.DB, sim *engine.Simulation) error {
	sec, dip := sim.Snapshot()
	return db.SaveState(persistence.Snapshot{Sector: sec, Diplomacy: dip})
}

func randomFor(seed int64) entropy.Source {
	if seed == 0 {
		return entropy.Shared()
	}
	return entropy.NewSeeded(seed)
}
