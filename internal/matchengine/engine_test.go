package matchengine

import (
	"path/filepath"
	"testing"

	"github.com/jtai-dev/record-matcher/internal/store"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewEngine(s), s
}

func sampleTables() (x, y recordmatcher.Table) {
	x = recordmatcher.Table{
		1: {"name": "Ada Lovelace", "email": "ada@example.com"},
		2: {"name": "Cid Rey", "email": "cid@example.org"},
	}
	y = recordmatcher.Table{
		1: {"full_name": "Ada Lovelace", "email": "ada@example.com"},
		2: {"full_name": "Someone Else", "email": "nobody@example.com"},
	}
	return x, y
}

func exactMatchConfig(t *testing.T, x, y recordmatcher.Table) *recordmatcher.Config {
	t.Helper()
	registry := recordmatcher.NewRegistry()
	cfg := recordmatcher.NewConfig(registry)
	cfg.SetTables(x, y)
	if err := cfg.AddColumnToMatch("email", "email"); err != nil {
		t.Fatalf("AddColumnToMatch: %v", err)
	}
	return cfg
}

func TestEngineRunPersistsAndReturnsResult(t *testing.T) {
	e, _ := newTestEngine(t)
	x, y := sampleTables()
	cfg := exactMatchConfig(t, x, y)

	rr, err := e.Run(RunOptions{
		XSource: "x.csv",
		YSource: "y.csv",
		X:       x,
		Y:       y,
		Config:  cfg,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rr.Run.ID == "" {
		t.Fatal("expected a generated run id")
	}
	if len(rr.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(rr.Links))
	}
	if len(rr.Result) != 2 {
		t.Fatalf("expected result table with 2 rows, got %d", len(rr.Result))
	}
}

func TestEngineGetRunRoundTrips(t *testing.T) {
	e, _ := newTestEngine(t)
	x, y := sampleTables()
	cfg := exactMatchConfig(t, x, y)

	rr, err := e.Run(RunOptions{XSource: "x.csv", YSource: "y.csv", X: x, Y: y, Config: cfg})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	run, links, err := e.GetRun(rr.Run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.XRowCount != 2 {
		t.Fatalf("expected x_row_count 2, got %d", run.XRowCount)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
}

func TestEngineListRunsReturnsEveryRun(t *testing.T) {
	e, _ := newTestEngine(t)
	x, y := sampleTables()
	cfg := exactMatchConfig(t, x, y)

	if _, err := e.Run(RunOptions{XSource: "a.csv", YSource: "y.csv", X: x, Y: y, Config: cfg}); err != nil {
		t.Fatalf("Run 1: %v", err)
	}
	if _, err := e.Run(RunOptions{XSource: "b.csv", YSource: "y.csv", X: x, Y: y, Config: cfg}); err != nil {
		t.Fatalf("Run 2: %v", err)
	}

	runs, err := e.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestEngineRunProgressCallbackInvoked(t *testing.T) {
	e, _ := newTestEngine(t)
	x, y := sampleTables()
	cfg := exactMatchConfig(t, x, y)

	var seen []int
	_, err := e.Run(RunOptions{
		XSource: "x.csv",
		YSource: "y.csv",
		X:       x,
		Y:       y,
		Config:  cfg,
		Progress: func(xID int) error {
			seen = append(seen, xID)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected progress callback for both rows, got %v", seen)
	}
}
