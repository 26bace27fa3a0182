package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set during build.
var Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "recordmatcher",
	Short: "Fuzzy record linkage between two tabular datasets",
	Long: `recordmatcher links rows across two tables (X and Y) by weighted
composite similarity, producing a status per X row: MATCHED, REVIEW,
AMBIGUOUS, UNMATCHED, or DUPLICATE.

Examples:
  recordmatcher match --x left.csv --y right.csv --match name=full_name
  recordmatcher serve
  recordmatcher runs list
  recordmatcher runs get <run-id>
  recordmatcher doctor

Add --show-advanced to match's or benchmark's --help for less common flags.`,
	Version: Version,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}
