package linking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jtai-dev/record-matcher/internal/store"
)

// Service derives graph views from a store's link history.
type Service struct {
	store *store.Store
}

// NewService returns a Service backed by s.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Edge connects an X row to a Y row it was linked to within a run.
type Edge struct {
	XID    int     `json:"x_id"`
	YID    int     `json:"y_id"`
	Status string  `json:"status"`
	Score  float64 `json:"score,omitempty"`
}

// Graph is the bipartite view of a run's links: one node per X/Y row
// that appears in at least one edge, plus the edges themselves.
type Graph struct {
	RunID   string `json:"run_id"`
	XNodes  []int  `json:"x_nodes"`
	YNodes  []int  `json:"y_nodes"`
	Edges   []Edge `json:"edges"`
}

// MapGraph builds the full bipartite graph for a run.
func (s *Service) MapGraph(runID string) (*Graph, error) {
	links, err := s.store.GetLinks(runID)
	if err != nil {
		return nil, fmt.Errorf("linking: map graph for run %s: %w", runID, err)
	}

	xSet := map[int]struct{}{}
	ySet := map[int]struct{}{}
	var edges []Edge

	for _, l := range links {
		yIDs, scores := parsePairs(l.YIDs, l.MatchScore)
		if len(yIDs) == 0 {
			continue
		}
		xSet[l.XID] = struct{}{}
		for i, yID := range yIDs {
			ySet[yID] = struct{}{}
			score := 0.0
			if i < len(scores) {
				score = scores[i]
			}
			edges = append(edges, Edge{XID: l.XID, YID: yID, Status: l.MatchStatus, Score: score})
		}
	}

	return &Graph{
		RunID:  runID,
		XNodes: sortedKeys(xSet),
		YNodes: sortedKeys(ySet),
		Edges:  edges,
	}, nil
}

// Cluster groups the X rows that converged on the same Y row within a
// run — the set a reviewer would look at to resolve a DUPLICATE.
type Cluster struct {
	YID  int   `json:"y_id"`
	XIDs []int `json:"x_ids"`
}

// FindClusters returns every Y row linked to more than one X row in
// the run, sorted by Y id.
func (s *Service) FindClusters(runID string) ([]Cluster, error) {
	links, err := s.store.GetLinks(runID)
	if err != nil {
		return nil, fmt.Errorf("linking: find clusters for run %s: %w", runID, err)
	}

	byY := map[int][]int{}
	for _, l := range links {
		yIDs, _ := parsePairs(l.YIDs, l.MatchScore)
		for _, yID := range yIDs {
			byY[yID] = append(byY[yID], l.XID)
		}
	}

	var clusters []Cluster
	for yID, xIDs := range byY {
		if len(xIDs) < 2 {
			continue
		}
		sort.Ints(xIDs)
		clusters = append(clusters, Cluster{YID: yID, XIDs: xIDs})
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].YID < clusters[j].YID })
	return clusters, nil
}

// FindRelated returns the other X rows in the run that share a Y row
// with xID, excluding xID itself.
func (s *Service) FindRelated(runID string, xID int) ([]int, error) {
	clusters, err := s.FindClusters(runID)
	if err != nil {
		return nil, err
	}

	related := map[int]struct{}{}
	for _, c := range clusters {
		contains := false
		for _, id := range c.XIDs {
			if id == xID {
				contains = true
				break
			}
		}
		if !contains {
			continue
		}
		for _, id := range c.XIDs {
			if id != xID {
				related[id] = struct{}{}
			}
		}
	}
	return sortedKeys(related), nil
}

// parsePairs splits the comma-separated y-id and score strings the
// matcher writes into its reserved columns. Malformed entries are
// skipped rather than failing the whole row.
func parsePairs(yIDs, scores string) ([]int, []float64) {
	if strings.TrimSpace(yIDs) == "" {
		return nil, nil
	}

	idParts := strings.Split(yIDs, ", ")
	scoreParts := strings.Split(scores, ", ")

	ids := make([]int, 0, len(idParts))
	for _, p := range idParts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	vals := make([]float64, 0, len(scoreParts))
	for _, p := range scoreParts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			continue
		}
		vals = append(vals, v)
	}

	return ids, vals
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
