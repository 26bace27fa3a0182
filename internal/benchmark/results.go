package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ResultsStore persists sweep results to JSON files on disk, one file
// per scored run, so a series of sweeps can be compared later.
type ResultsStore struct {
	baseDir string
}

// NewResultsStore returns a store rooted at baseDir.
func NewResultsStore(baseDir string) *ResultsStore {
	return &ResultsStore{baseDir: baseDir}
}

// Save writes result to disk and returns the path it was written to.
func (s *ResultsStore) Save(result *RunResult) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("benchmark: create results dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s_%s.json",
		result.GoldenSet, result.ConfigName, result.Timestamp.Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.baseDir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("benchmark: marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("benchmark: write result: %w", err)
	}

	log.Info("saved benchmark result", "path", path)
	return path, nil
}

// Load reads a single result file back.
func (s *ResultsStore) Load(path string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("benchmark: read result: %w", err)
	}
	var result RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("benchmark: parse result: %w", err)
	}
	return &result, nil
}

// List returns every saved result, oldest first.
func (s *ResultsStore) List() ([]*RunResult, error) {
	files, err := filepath.Glob(filepath.Join(s.baseDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("benchmark: list results: %w", err)
	}
	sort.Strings(files)

	results := make([]*RunResult, 0, len(files))
	for _, f := range files {
		r, err := s.Load(f)
		if err != nil {
			log.Warn("skipping unreadable result file", "file", f, "error", err)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// CompareRuns contrasts two scored runs metric by metric.
func CompareRuns(a, b *RunResult) *Comparison {
	return &Comparison{
		RunA:          a.ConfigName,
		RunB:          b.ConfigName,
		PrecisionDiff: diff(a.Metrics.Precision, b.Metrics.Precision),
		RecallDiff:    diff(a.Metrics.Recall, b.Metrics.Recall),
		F1Diff:        diff(a.Metrics.F1, b.Metrics.F1),
	}
}

func diff(before, after float64) ScoreDiff {
	return ScoreDiff{Before: before, After: after, Delta: after - before}
}
