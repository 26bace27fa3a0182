package linking

import (
	"path/filepath"
	"testing"

	"github.com/jtai-dev/record-matcher/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s), s
}

// seedDuplicateRun creates a run where x1 and x2 both tied for y1
// (a DUPLICATE per the matching engine's pass-2 rules) while x3 is
// matched cleanly to y2.
func seedDuplicateRun(t *testing.T, s *store.Store, runID string) {
	t.Helper()
	run := store.Run{
		ID:        runID,
		XSource:   "x.csv",
		YSource:   "y.csv",
		XRowCount: 3,
		YRowCount: 2,
	}
	links := []store.Link{
		{XID: 1, YIDs: "1", MatchStatus: "DUPLICATE", MatchScore: "92"},
		{XID: 2, YIDs: "1", MatchStatus: "DUPLICATE", MatchScore: "92"},
		{XID: 3, YIDs: "2", MatchStatus: "MATCHED", MatchScore: "100"},
	}
	if err := s.CreateRun(run, links); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
}

func TestMapGraphIncludesAllEdges(t *testing.T) {
	svc, s := newTestService(t)
	seedDuplicateRun(t, s, "run-1")

	g, err := svc.MapGraph("run-1")
	if err != nil {
		t.Fatalf("MapGraph: %v", err)
	}
	if len(g.Edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(g.Edges))
	}
	if len(g.XNodes) != 3 || len(g.YNodes) != 2 {
		t.Fatalf("expected 3 x nodes and 2 y nodes, got %d/%d", len(g.XNodes), len(g.YNodes))
	}
}

func TestFindClustersDetectsSharedYRow(t *testing.T) {
	svc, s := newTestService(t)
	seedDuplicateRun(t, s, "run-1")

	clusters, err := svc.FindClusters("run-1")
	if err != nil {
		t.Fatalf("FindClusters: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].YID != 1 {
		t.Fatalf("expected cluster on y=1, got y=%d", clusters[0].YID)
	}
	if len(clusters[0].XIDs) != 2 || clusters[0].XIDs[0] != 1 || clusters[0].XIDs[1] != 2 {
		t.Fatalf("expected cluster x ids [1 2], got %v", clusters[0].XIDs)
	}
}

func TestFindRelatedReturnsClusterPeers(t *testing.T) {
	svc, s := newTestService(t)
	seedDuplicateRun(t, s, "run-1")

	related, err := svc.FindRelated("run-1", 1)
	if err != nil {
		t.Fatalf("FindRelated: %v", err)
	}
	if len(related) != 1 || related[0] != 2 {
		t.Fatalf("expected [2], got %v", related)
	}
}

func TestFindRelatedNoPeersIsEmpty(t *testing.T) {
	svc, s := newTestService(t)
	seedDuplicateRun(t, s, "run-1")

	related, err := svc.FindRelated("run-1", 3)
	if err != nil {
		t.Fatalf("FindRelated: %v", err)
	}
	if len(related) != 0 {
		t.Fatalf("expected no related rows for x=3, got %v", related)
	}
}

func TestMapGraphUnmatchedRowsHaveNoEdges(t *testing.T) {
	svc, s := newTestService(t)
	run := store.Run{ID: "run-2", XSource: "x.csv", YSource: "y.csv", XRowCount: 1, YRowCount: 0}
	links := []store.Link{{XID: 1, YIDs: "", MatchStatus: "UNMATCHED", MatchScore: ""}}
	if err := s.CreateRun(run, links); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	g, err := svc.MapGraph("run-2")
	if err != nil {
		t.Fatalf("MapGraph: %v", err)
	}
	if len(g.Edges) != 0 {
		t.Fatalf("expected no edges for unmatched run, got %d", len(g.Edges))
	}
}
