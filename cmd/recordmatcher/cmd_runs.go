package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtai-dev/record-matcher/internal/linking"
	"github.com/jtai-dev/record-matcher/internal/matchengine"
	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/config"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past matching runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Run: func(cmd *cobra.Command, args []string) {
		runRunsList()
	},
}

var runsGetCmd = &cobra.Command{
	Use:   "get <run-id>",
	Short: "Show a run's summary and per-row outcomes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRunsGet(args[0])
	},
}

var runsGraphCmd = &cobra.Command{
	Use:   "graph <run-id>",
	Short: "Print the bipartite X/Y match graph for a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRunsGraph(args[0])
	},
}

var runsClustersCmd = &cobra.Command{
	Use:   "clusters <run-id>",
	Short: "List duplicate clusters found in a run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRunsClusters(args[0])
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 50, "maximum number of runs to list")

	runsCmd.AddCommand(runsListCmd, runsGetCmd, runsGraphCmd, runsClustersCmd)
	rootCmd.AddCommand(runsCmd)
}

func withEngine(fn func(*matchengine.Engine)) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	db, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	fn(matchengine.NewEngine(db))
}

func withStore(fn func(*store.Store)) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	db, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	fn(db)
}

func runRunsList() {
	withEngine(func(engine *matchengine.Engine) {
		runs, err := engine.ListRuns(runsLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}
		fmt.Printf("%-38s %-20s %-20s %8s %8s %s\n", "RUN ID", "X SOURCE", "Y SOURCE", "X ROWS", "Y ROWS", "CREATED")
		for _, r := range runs {
			fmt.Printf("%-38s %-20s %-20s %8d %8d %s\n",
				r.ID, r.XSource, r.YSource, r.XRowCount, r.YRowCount, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	})
}

func runRunsGet(runID string) {
	withEngine(func(engine *matchengine.Engine) {
		run, links, err := engine.GetRun(runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Run:        %s\n", run.ID)
		fmt.Printf("Created:    %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("X source:   %s (%d rows)\n", run.XSource, run.XRowCount)
		fmt.Printf("Y source:   %s (%d rows)\n", run.YSource, run.YRowCount)
		fmt.Printf("Thresholds: required=%.1f duplicate=%.1f\n", run.RequiredThreshold, run.DuplicateThreshold)
		fmt.Printf("Duration:   %dms\n", run.DurationMS)
		fmt.Println("Summary:")
		for status, count := range run.Summary {
			fmt.Printf("  %-12s %d\n", status, count)
		}
		fmt.Println()
		fmt.Printf("%-8s %-38s %-10s %s\n", "X ID", "Y IDS", "STATUS", "SCORE")
		for _, l := range links {
			fmt.Printf("%-8d %-38s %-10s %s\n", l.XID, l.YIDs, l.MatchStatus, l.MatchScore)
		}
	})
}

func runRunsGraph(runID string) {
	withStore(func(db *store.Store) {
		svc := linking.NewService(db)
		graph, err := svc.MapGraph(runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Run %s: %d X nodes, %d Y nodes, %d edges\n",
			graph.RunID, len(graph.XNodes), len(graph.YNodes), len(graph.Edges))
		for _, e := range graph.Edges {
			fmt.Printf("  x:%d -> y:%d  %-10s score=%.2f\n", e.XID, e.YID, e.Status, e.Score)
		}
	})
}

func runRunsClusters(runID string) {
	withStore(func(db *store.Store) {
		svc := linking.NewService(db)
		clusters, err := svc.FindClusters(runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(clusters) == 0 {
			fmt.Println("No duplicate clusters found.")
			return
		}
		for _, c := range clusters {
			xids := make([]string, len(c.XIDs))
			for i, id := range c.XIDs {
				xids[i] = strconv.Itoa(id)
			}
			fmt.Printf("y:%d -> x:[%s]\n", c.YID, strings.Join(xids, ", "))
		}
	})
}
