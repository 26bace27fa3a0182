// Package goldenset holds labeled ground truth for evaluating the
// matching engine: a pair of tables plus the "row N in X should
// resolve to row M in Y" answer key an embedder trusts.
package goldenset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// Pair is one labeled answer. YID is 0 when X's XID row is expected
// to have no match in Y at all.
type Pair struct {
	XID int `json:"x_id"`
	YID int `json:"y_id"`
}

// GoldenSet bundles the two tables under test with their answer key.
type GoldenSet struct {
	Name  string              `json:"name"`
	X     recordmatcher.Table `json:"x"`
	Y     recordmatcher.Table `json:"y"`
	Pairs []Pair              `json:"pairs"`
}

// Expected returns the answer key as a map from X row id to expected
// Y row id (0 meaning "no match").
func (g *GoldenSet) Expected() map[int]int {
	out := make(map[int]int, len(g.Pairs))
	for _, p := range g.Pairs {
		out[p.XID] = p.YID
	}
	return out
}

// Load reads a golden set from a JSON file shaped like GoldenSet.
func Load(path string) (*GoldenSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("goldenset: read %s: %w", path, err)
	}
	var g GoldenSet
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("goldenset: parse %s: %w", path, err)
	}
	return &g, nil
}

// Save writes g to path as indented JSON, for hand-curating a golden
// set from a real run's output.
func Save(path string, g *GoldenSet) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("goldenset: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("goldenset: write %s: %w", path, err)
	}
	return nil
}
