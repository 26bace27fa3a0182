package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtai-dev/record-matcher/benchmark/goldenset"
	"github.com/jtai-dev/record-matcher/internal/api"
	"github.com/jtai-dev/record-matcher/internal/benchmark"
	"github.com/jtai-dev/record-matcher/internal/cli"
	"github.com/jtai-dev/record-matcher/pkg/config"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

var (
	benchGoldenPath      string
	benchColumns         []string
	benchScorers         []string
	benchSweepThresholds []float64
	benchResultsDir      string
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Score the matcher against a labeled golden set",
	Long: `Run the matching engine against a golden set of known X->Y pairs and
report precision, recall, and F1. With --sweep-threshold, runs once per
required-threshold value and ranks the results by F1.

Example:
  recordmatcher benchmark --golden testdata/golden.json --match name=full_name \
    --sweep-threshold 60,70,80,90,95`,
	Run: func(cmd *cobra.Command, args []string) {
		runBenchmark()
	},
}

func init() {
	benchmarkCmd.Flags().StringVar(&benchGoldenPath, "golden", "", "path to a golden set JSON file")
	benchmarkCmd.Flags().StringArrayVar(&benchColumns, "match", nil, "x_column=y_column[,y_column2,...] (repeatable)")
	benchmarkCmd.Flags().Float64SliceVar(&benchSweepThresholds, "sweep-threshold", []float64{75.0}, "required-threshold values to sweep, comma-separated")

	benchmarkCmd.Flags().StringArrayVar(&benchScorers, "scorer", nil, "x_column=scorer_name (repeatable)")
	benchmarkCmd.Flags().StringVar(&benchResultsDir, "results-dir", "", "directory to save scored results (defaults under the config dir)")
	cli.AdvancedFlags(benchmarkCmd, "scorer", "results-dir")

	rootCmd.AddCommand(benchmarkCmd)
}

func runBenchmark() {
	if benchGoldenPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --golden is required")
		os.Exit(1)
	}
	if len(benchColumns) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one --match x_column=y_column is required")
		os.Exit(1)
	}

	g, err := goldenset.Load(benchGoldenPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading golden set: %v\n", err)
		os.Exit(1)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(benchGoldenPath), filepath.Ext(benchGoldenPath))
	}

	registry := api.NewScorerRegistry()

	resultsDir := benchResultsDir
	if resultsDir == "" {
		resultsDir = filepath.Join(config.ConfigPath(), "benchmark-results")
	}
	service := benchmark.NewService(registry, resultsDir)

	configs := make([]benchmark.NamedConfig, 0, len(benchSweepThresholds))
	for _, threshold := range benchSweepThresholds {
		threshold := threshold
		configs = append(configs, benchmark.NamedConfig{
			Name: fmt.Sprintf("required=%.1f", threshold),
			Build: func(registry *recordmatcher.Registry, g *goldenset.GoldenSet) (*recordmatcher.Config, *recordmatcher.Matcher, error) {
				return buildBenchmarkConfig(registry, g, threshold)
			},
		})
	}

	results, err := service.Sweep(g, configs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running sweep: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-20s %10s %10s %10s %10s\n", "CONFIG", "PRECISION", "RECALL", "F1", "DURATION")
	for _, r := range results {
		fmt.Printf("%-20s %10.3f %10.3f %10.3f %8dms\n",
			r.ConfigName, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.DurationMS)
	}
}

func buildBenchmarkConfig(registry *recordmatcher.Registry, g *goldenset.GoldenSet, threshold float64) (*recordmatcher.Config, *recordmatcher.Matcher, error) {
	cfg := recordmatcher.NewConfig(registry)
	cfg.SetTables(g.X, g.Y)

	for _, spec := range benchColumns {
		xCol, yCols, err := splitKeyValues(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --match %q: %w", spec, err)
		}
		if err := cfg.AddColumnToMatch(xCol, yCols...); err != nil {
			return nil, nil, err
		}
		if err := cfg.SetThresholdForColumn(xCol, threshold); err != nil {
			return nil, nil, err
		}
	}
	for _, spec := range benchScorers {
		xCol, name, err := splitKeyValue(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --scorer %q: %w", spec, err)
		}
		if err := cfg.SetScorerForColumn(xCol, name); err != nil {
			return nil, nil, err
		}
	}

	matcher := recordmatcher.NewMatcher()
	matcher.RequiredThreshold = threshold
	return cfg, matcher, nil
}
