package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/sector-diplomacy/internal/api"
	"github.com/talgya/sector-diplomacy/internal/engine"
	"github.com/talgya/sector-diplomacy/internal/tuning"
)

var runFlags struct {
	seed       int64
	dbPath     string
	tuningPath string
	days       float64
	speed      float64
	summary    int
	port       int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate or resume a sector and advance it",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.Int64Var(&runFlags.seed, "seed", 0, "Generation and decision seed (0 = random; overrides the tuning file)")
	f.StringVar(&runFlags.dbPath, "db", defaultDBPath, "SQLite database path")
	f.StringVar(&runFlags.tuningPath, "tuning", "", "YAML tuning file")
	f.Float64Var(&runFlags.days, "days", 0, "Fast-forward this many days and exit (0 = run in real time)")
	f.Float64Var(&runFlags.speed, "speed", 1, "Simulation speed multiplier")
	f.IntVar(&runFlags.summary, "summary-every", 10, "Days between sector summaries")
	f.IntVar(&runFlags.port, "port", 0, "Serve the HTTP API on this port (0 = disabled)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	tun, err := tuning.Load(runFlags.tuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	if cmd.Flags().Changed("seed") {
		tun.Sector.Seed = runFlags.seed
	}

	db, err := openDB(runFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", runFlags.dbPath)

	sim, fresh, err := loadSimulation(db, tun, randomFor(tun.Sector.Seed))
	if err != nil {
		return err
	}
	if fresh {
		if err := saveSimulation(db, sim); err != nil {
			return fmt.Errorf("initial save: %w", err)
		}
	}

	eng := engine.NewEngine()
	eng.Day = sim.Sector.Day
	eng.Speed = runFlags.speed
	eng.OnAdvance = sim.Advance
	eng.OnDay = func(day int) {
		if runFlags.summary > 0 && day%runFlags.summary == 0 {
			sim.LogSummary()
		}
	}
	eng.OnMonth = func(int) {
		if err := saveSimulation(db, sim); err != nil {
			slog.Error("periodic save failed", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runFlags.port > 0 {
		adminKey := os.Getenv("SECTORSIM_ADMIN_KEY")
		if adminKey == "" {
			slog.Warn("SECTORSIM_ADMIN_KEY not set, negotiation answers over HTTP are disabled")
		}
		srv := &api.Server{Sim: sim, DB: db, Port: runFlags.port, AdminKey: adminKey}
		srv.Start(ctx)
	}

	if runFlags.days > 0 {
		err = eng.RunDays(ctx, runFlags.days)
	} else {
		err = eng.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation stopped", "error", err)
	}

	sim.LogSummary()
	if saveErr := saveSimulation(db, sim); saveErr != nil {
		return fmt.Errorf("final save: %w", saveErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
