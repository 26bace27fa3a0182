package benchmark

import (
	"fmt"
	"time"

	"github.com/jtai-dev/record-matcher/benchmark/goldenset"
	"github.com/jtai-dev/record-matcher/internal/logging"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

var log = logging.GetLogger("benchmark")

// ConfigBuilder constructs the config and matcher under test for one
// golden set. It is handed the set's tables directly so it can wire
// column-matching rules that reference their actual column names.
type ConfigBuilder func(registry *recordmatcher.Registry, g *goldenset.GoldenSet) (*recordmatcher.Config, *recordmatcher.Matcher, error)

// Runner executes one or more NamedConfigs against a GoldenSet and
// scores each against the set's answer key.
type Runner struct {
	registry *recordmatcher.Registry
}

// NewRunner returns a Runner that resolves scorer names against registry.
func NewRunner(registry *recordmatcher.Registry) *Runner {
	return &Runner{registry: registry}
}

// Run executes a single named configuration and returns its scored result.
func (r *Runner) Run(g *goldenset.GoldenSet, nc NamedConfig) (*RunResult, error) {
	if len(g.Pairs) == 0 {
		return nil, ErrEmptyGoldenSet
	}

	cfg, matcher, err := nc.Build(r.registry, g)
	if err != nil {
		return nil, fmt.Errorf("benchmark: build config %q: %w", nc.Name, err)
	}
	if matcher == nil {
		matcher = recordmatcher.NewMatcher()
	}

	start := time.Now()
	result, _, err := matcher.Match(g.X, g.Y, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("benchmark: run %q: %w", nc.Name, err)
	}
	elapsed := time.Since(start)

	metrics := ComputeMetrics(result, g, matcher)

	log.Info("sweep run scored", "config", nc.Name, "golden_set", g.Name,
		"precision", metrics.Precision, "recall", metrics.Recall, "f1", metrics.F1)

	return &RunResult{
		ConfigName: nc.Name,
		GoldenSet:  g.Name,
		Metrics:    metrics,
		DurationMS: elapsed.Milliseconds(),
		Timestamp:  time.Now(),
	}, nil
}

// Sweep runs every NamedConfig in configs against g and returns their
// scored results in the same order. A config that fails to build or
// run is skipped with a logged warning rather than aborting the sweep.
func (r *Runner) Sweep(g *goldenset.GoldenSet, configs []NamedConfig) []RunResult {
	results := make([]RunResult, 0, len(configs))
	for _, nc := range configs {
		res, err := r.Run(g, nc)
		if err != nil {
			log.Warn("sweep config failed", "config", nc.Name, "error", err)
			continue
		}
		results = append(results, *res)
	}
	return results
}
