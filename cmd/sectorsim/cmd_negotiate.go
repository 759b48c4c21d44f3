package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/sector-diplomacy/internal/tuning"
)

var negotiateFlags struct {
	dbPath     string
	tuningPath string
	id         string
	accept     bool
	reject     bool
}

var negotiateCmd = &cobra.Command{
	Use:   "negotiate",
	Short: "Answer a pending ceasefire offer made to the player",
	RunE:  runNegotiate,
}

func init() {
	f := negotiateCmd.Flags()
	f.StringVar(&negotiateFlags.dbPath, "db", defaultDBPath, "SQLite database path")
	f.StringVar(&negotiateFlags.tuningPath, "tuning", "", "YAML tuning file")
	f.StringVar(&negotiateFlags.id, "id", "", "Negotiation ID (required)")
	f.BoolVar(&negotiateFlags.accept, "accept", false, "Accept the offer")
	f.BoolVar(&negotiateFlags.reject, "reject", false, "Reject the offer")

	_ = negotiateCmd.MarkFlagRequired("id")
	negotiateCmd.MarkFlagsMutuallyExclusive("accept", "reject")
	negotiateCmd.MarkFlagsOneRequired("accept", "reject")
}

func runNegotiate(cmd *cobra.Command, _ []string) error {
	tun, err := tuning.Load(negotiateFlags.tuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	db, err := openDB(negotiateFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	sim, fresh, err := loadSimulation(db, tun, randomFor(0))
	if err != nil {
		return err
	}
	if fresh {
		return errors.New("no saved sector to negotiate in")
	}

	n, err := sim.AnswerNegotiation(negotiateFlags.id, negotiateFlags.accept)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", n.Proposer, n.State)
	return saveSimulation(db, sim)
}
