package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtai-dev/record-matcher/internal/api"
	"github.com/jtai-dev/record-matcher/internal/cli"
	"github.com/jtai-dev/record-matcher/internal/matchengine"
	"github.com/jtai-dev/record-matcher/pkg/config"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

var (
	matchXPath      string
	matchYPath      string
	matchXSource    string
	matchYSource    string
	matchOutPath    string
	matchColumns    []string
	matchScorers    []string
	matchThresholds []string
	matchCutoffs    []string
	matchGets       []string
	matchGroups     []string
	matchRequired   float64
	matchDuplicate  float64
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Link rows between two CSV tables",
	Long: `Run fuzzy record linkage between two CSV tables and print or save the
annotated result.

Examples:
  recordmatcher match --x left.csv --y right.csv --match name=full_name
  recordmatcher match --x left.csv --y right.csv --match email=email --out result.csv
  recordmatcher match --x left.csv --y right.csv --match name=full_name \
    --scorer name=token_sort --threshold name=80 --required-threshold 70`,
	Run: func(cmd *cobra.Command, args []string) {
		runMatch()
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchXPath, "x", "", "path to the left (X) table CSV")
	matchCmd.Flags().StringVar(&matchYPath, "y", "", "path to the right (Y) table CSV")
	matchCmd.Flags().StringArrayVar(&matchColumns, "match", nil, "x_column=y_column[,y_column2,...] (repeatable)")
	matchCmd.Flags().StringVar(&matchOutPath, "out", "", "write the result to this CSV path instead of stdout")
	matchCmd.Flags().Float64Var(&matchRequired, "required-threshold", 75.0, "minimum composite score required for a match")

	matchCmd.Flags().StringVar(&matchXSource, "x-source", "", "label recorded for the X table's origin")
	matchCmd.Flags().StringVar(&matchYSource, "y-source", "", "label recorded for the Y table's origin")
	matchCmd.Flags().StringArrayVar(&matchScorers, "scorer", nil, "x_column=scorer_name (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchThresholds, "threshold", nil, "x_column=threshold (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchCutoffs, "cutoff", nil, "x_column=true|false (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchGets, "get", nil, "y_column=dest_column to copy into the result (repeatable)")
	matchCmd.Flags().StringArrayVar(&matchGroups, "group", nil, "y_column=x_column: only Y rows whose y_column equals the X row's x_column are candidates (repeatable)")
	matchCmd.Flags().Float64Var(&matchDuplicate, "duplicate-threshold", 0.0, "score gap under which tied matches are flagged DUPLICATE")

	cli.AdvancedFlags(matchCmd, "x-source", "y-source", "scorer", "threshold", "cutoff", "get", "group", "duplicate-threshold")

	rootCmd.AddCommand(matchCmd)
}

func runMatch() {
	if matchXPath == "" || matchYPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --x and --y are required")
		os.Exit(1)
	}
	if len(matchColumns) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one --match x_column=y_column is required")
		os.Exit(1)
	}

	x, err := readCSVTable(matchXPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", matchXPath, err)
		os.Exit(1)
	}
	y, err := readCSVTable(matchYPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", matchYPath, err)
		os.Exit(1)
	}

	registry := api.NewScorerRegistry()
	cfg := recordmatcher.NewConfig(registry)
	cfg.SetTables(x, y)

	for _, spec := range matchColumns {
		xCol, yCols, err := splitKeyValues(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --match %q: %v\n", spec, err)
			os.Exit(1)
		}
		if err := cfg.AddColumnToMatch(xCol, yCols...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, spec := range matchScorers {
		xCol, name, err := splitKeyValue(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --scorer %q: %v\n", spec, err)
			os.Exit(1)
		}
		if err := cfg.SetScorerForColumn(xCol, name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, spec := range matchThresholds {
		xCol, raw, err := splitKeyValue(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --threshold %q: %v\n", spec, err)
			os.Exit(1)
		}
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --threshold value %q: %v\n", raw, err)
			os.Exit(1)
		}
		if err := cfg.SetThresholdForColumn(xCol, t); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, spec := range matchCutoffs {
		xCol, raw, err := splitKeyValue(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --cutoff %q: %v\n", spec, err)
			os.Exit(1)
		}
		c, err := strconv.ParseBool(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --cutoff value %q: %v\n", raw, err)
			os.Exit(1)
		}
		if err := cfg.SetCutoffForColumn(xCol, c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, spec := range matchGets {
		yCol, dest, err := splitKeyValue(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --get %q: %v\n", spec, err)
			os.Exit(1)
		}
		if err := cfg.SetColumnToGet(yCol, dest); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	for _, spec := range matchGroups {
		yCol, xCol, err := splitKeyValue(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --group %q: %v\n", spec, err)
			os.Exit(1)
		}
		if err := cfg.SetColumnToGroup(yCol, xCol); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	matcher := recordmatcher.NewMatcher()
	matcher.RequiredThreshold = matchRequired
	matcher.DuplicateThreshold = matchDuplicate

	cfg2, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	db, err := openStore(cfg2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	xSource, ySource := matchXSource, matchYSource
	if xSource == "" {
		xSource = filepath.Base(matchXPath)
	}
	if ySource == "" {
		ySource = filepath.Base(matchYPath)
	}

	engine := matchengine.NewEngine(db)
	result, err := engine.Run(matchengine.RunOptions{
		XSource: xSource,
		YSource: ySource,
		X:       x,
		Y:       y,
		Config:  cfg,
		Matcher: matcher,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Run %s: %d X rows, %d Y rows, %v\n",
		result.Run.ID, result.Run.XRowCount, result.Run.YRowCount, result.Run.Summary)

	if err := writeCSVTable(matchOutPath, result.Result); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
		os.Exit(1)
	}
}

// readCSVTable reads a CSV file into a Table, numbering rows 1..N in
// file order.
func readCSVTable(path string) (recordmatcher.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	table := make(recordmatcher.Table)
	id := 1
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		rec := make(recordmatcher.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		table[id] = rec
		id++
	}
	return table, nil
}

// writeCSVTable writes a result table to path, or to stdout if path
// is empty. Columns are sorted for a deterministic header.
func writeCSVTable(path string, table recordmatcher.Table) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	cols := recordmatcher.ColumnNameSlice(table)
	if err := w.Write(cols); err != nil {
		return err
	}

	for _, id := range table.IDs() {
		rec := table[id]
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = rec.Get(c)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// splitKeyValue splits a "key=value" flag argument.
func splitKeyValue(spec string) (string, string, error) {
	parts := strings.SplitN(spec, "=", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected key=value")
	}
	return parts[0], parts[1], nil
}

// splitKeyValues splits a "key=v1,v2,..." flag argument.
func splitKeyValues(spec string) (string, []string, error) {
	key, rest, err := splitKeyValue(spec)
	if err != nil {
		return "", nil, err
	}
	return key, strings.Split(rest, ","), nil
}
