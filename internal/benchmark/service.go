package benchmark

import (
	"sort"

	"github.com/jtai-dev/record-matcher/benchmark/goldenset"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// Service is the application-facing entry point for running and
// persisting benchmark sweeps.
type Service struct {
	runner *Runner
	store  *ResultsStore
}

// NewService returns a Service that resolves scorers through registry
// and persists results under resultsDir.
func NewService(registry *recordmatcher.Registry, resultsDir string) *Service {
	return &Service{
		runner: NewRunner(registry),
		store:  NewResultsStore(resultsDir),
	}
}

// Sweep runs every configuration in configs against g, persists each
// scored result, and returns them ranked best F1 first.
func (s *Service) Sweep(g *goldenset.GoldenSet, configs []NamedConfig) ([]RunResult, error) {
	results := s.runner.Sweep(g, configs)

	for i := range results {
		if _, err := s.store.Save(&results[i]); err != nil {
			return results, err
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Metrics.F1 > results[j].Metrics.F1
	})
	return results, nil
}

// History returns every previously saved result.
func (s *Service) History() ([]*RunResult, error) {
	return s.store.List()
}
