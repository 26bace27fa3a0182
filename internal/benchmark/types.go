// Package benchmark scores the matching engine's precision, recall,
// and F1 against a labeled golden set, across one or more candidate
// configurations.
package benchmark

import "time"

// NamedConfig pairs a human-readable label with the config and
// matcher it describes, so sweep output can be attributed back to
// the setting that produced it.
type NamedConfig struct {
	Name    string
	Build   ConfigBuilder
}

// Metrics summarizes one run's classification accuracy against a
// golden set's answer key.
type Metrics struct {
	TotalPairs      int     `json:"total_pairs"`
	TruePositives   int     `json:"true_positives"`
	FalsePositives  int     `json:"false_positives"`
	FalseNegatives  int     `json:"false_negatives"`
	TrueNegatives   int     `json:"true_negatives"`
	Precision       float64 `json:"precision"`
	Recall          float64 `json:"recall"`
	F1              float64 `json:"f1"`
}

// RunResult is one configuration's scored outcome.
type RunResult struct {
	ConfigName string    `json:"config_name"`
	GoldenSet  string    `json:"golden_set"`
	Metrics    Metrics   `json:"metrics"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// ScoreDiff captures how a metric moved between two runs.
type ScoreDiff struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Delta  float64 `json:"delta"`
}

// Comparison contrasts two RunResults metric by metric.
type Comparison struct {
	RunA         string    `json:"run_a"`
	RunB         string    `json:"run_b"`
	PrecisionDiff ScoreDiff `json:"precision_diff"`
	RecallDiff    ScoreDiff `json:"recall_diff"`
	F1Diff        ScoreDiff `json:"f1_diff"`
}
