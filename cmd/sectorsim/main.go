// Command sectorsim runs the autonomous faction diplomacy simulation.
//
// Usage:
//
//	sectorsim run [--seed=N] [--db=<path>] [--tuning=<yaml>] [--days=N] [--speed=X]
//	sectorsim inspect [--db=<path>] [--faction=<id>] [--events=N]
//	sectorsim negotiate --id=<negotiation> (--accept | --reject) [--db=<path>]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const defaultDBPath = "data/sector.db"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sectorsim",
	Short: "Autonomous faction diplomacy simulation",
	Long:  "sectorsim runs a sector of AI factions that declare wars, sue for peace\nand trade diplomatic incidents, persisting the whole state to SQLite.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log decision traces")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(negotiateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
