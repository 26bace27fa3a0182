package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtai-dev/record-matcher/pkg/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and run-history database health",
	Long:  `Run a quick system check to verify configuration and the run-history database are working.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDoctor()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor() {
	fmt.Println("recordmatcher system check")
	fmt.Println("==========================")
	fmt.Println()

	allOK := true

	fmt.Print("Configuration... ")
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		allOK = false
	} else {
		fmt.Println("OK")
	}

	fmt.Print("Run-history database... ")
	if cfg != nil {
		if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
			fmt.Println("NOT INITIALIZED (will be created on first use)")
		} else {
			db, err := openStore(cfg)
			if err != nil {
				fmt.Printf("ERROR: %v\n", err)
				allOK = false
			} else {
				stats, err := db.GetStats()
				if err != nil {
					fmt.Printf("ERROR: %v\n", err)
					allOK = false
				} else {
					fmt.Printf("OK (%d runs, %d links)\n", stats.RunCount, stats.LinkCount)
				}
				db.Close()
			}
		}
		fmt.Printf("  Path: %s\n", cfg.Database.Path)
	}
	fmt.Println()

	if cfg != nil {
		fmt.Println("Configuration:")
		fmt.Printf("  Config dir: %s\n", config.ConfigPath())
		fmt.Printf("  REST API: %s:%d (enabled: %v)\n", cfg.RestAPI.Host, cfg.RestAPI.Port, cfg.RestAPI.Enabled)
		fmt.Printf("  MCP server: enabled: %v\n", cfg.MCP.Enabled)
		fmt.Printf("  Rate limiting: enabled: %v\n", cfg.RateLimit.Enabled)
		fmt.Println()
	}

	if allOK {
		fmt.Println("All systems operational.")
	} else {
		fmt.Println("Some issues detected. Please review the errors above.")
		os.Exit(1)
	}
}
