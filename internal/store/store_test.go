package store

import (
	"path/filepath"
	"testing"

	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.TableExists("runs")
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if !ok {
		t.Fatal("expected runs table to exist after Open")
	}

	ok, err = s.TableExists("links")
	if err != nil {
		t.Fatalf("TableExists: %v", err)
	}
	if !ok {
		t.Fatal("expected links table to exist after Open")
	}
}

func TestGetSchemaVersionMatchesConstant(t *testing.T) {
	s := newTestStore(t)

	version, err := s.GetSchemaVersion()
	if err != nil {
		t.Fatalf("GetSchemaVersion: %v", err)
	}
	if version != SchemaVersion {
		t.Fatalf("GetSchemaVersion() = %d, want %d", version, SchemaVersion)
	}
}

func sampleRun() (Run, []Link) {
	run := Run{
		ID:                 "run-1",
		XSource:            "customers.csv",
		YSource:            "crm_export.csv",
		XRowCount:          2,
		YRowCount:          2,
		RequiredThreshold:  75,
		DuplicateThreshold: 0,
		Config: ConfigSnapshot{
			ColumnsToMatch: map[string][]string{"email": {"email"}},
		},
		Summary: recordmatcher.Summary{"MATCHED": 1, "UNMATCHED": 1},
	}
	links := []Link{
		{XID: 1, YIDs: "1", MatchStatus: "MATCHED", MatchScore: "100"},
		{XID: 2, YIDs: "", MatchStatus: "UNMATCHED", MatchScore: ""},
	}
	return run, links
}

func TestCreateAndGetRunRoundTrips(t *testing.T) {
	s := newTestStore(t)
	run, links := sampleRun()

	if err := s.CreateRun(run, links); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.XSource != run.XSource || got.YSource != run.YSource {
		t.Fatalf("GetRun mismatched sources: %+v", got)
	}
	if got.Summary["MATCHED"] != 1 {
		t.Fatalf("expected summary to round-trip, got %+v", got.Summary)
	}
	if len(got.Config.ColumnsToMatch["email"]) != 1 {
		t.Fatalf("expected config snapshot to round-trip, got %+v", got.Config)
	}
}

func TestGetRunUnknownIDReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun("missing")
	if err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestGetLinksOrderedByXID(t *testing.T) {
	s := newTestStore(t)
	run, links := sampleRun()
	if err := s.CreateRun(run, links); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := s.GetLinks(run.ID)
	if err != nil {
		t.Fatalf("GetLinks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d", len(got))
	}
	if got[0].XID != 1 || got[1].XID != 2 {
		t.Fatalf("expected links ordered by x_id, got %+v", got)
	}
}

func TestListRunsReturnsEveryRun(t *testing.T) {
	s := newTestStore(t)
	run1, links1 := sampleRun()
	run2, links2 := sampleRun()
	run2.ID = "run-2"

	if err := s.CreateRun(run1, links1); err != nil {
		t.Fatalf("CreateRun run1: %v", err)
	}
	if err := s.CreateRun(run2, links2); err != nil {
		t.Fatalf("CreateRun run2: %v", err)
	}

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestDeleteRunCascadesLinks(t *testing.T) {
	s := newTestStore(t)
	run, links := sampleRun()
	if err := s.CreateRun(run, links); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	if err := s.DeleteRun(run.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	if _, err := s.GetRun(run.ID); err == nil {
		t.Fatal("expected run to be gone after delete")
	}
	remaining, err := s.GetLinks(run.ID)
	if err != nil {
		t.Fatalf("GetLinks after delete: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected links to cascade-delete, got %d remaining", len(remaining))
	}
}

func TestDeleteRunUnknownIDReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteRun("missing"); err == nil {
		t.Fatal("expected error deleting unknown run")
	}
}

func TestLinksFromResultExtractsReservedColumns(t *testing.T) {
	cols := recordmatcher.DefaultResultColumns()
	result := recordmatcher.Table{
		1: {cols.MatchStatus: "MATCHED", cols.MatchedWithRow: "1", cols.MatchScore: "100"},
		2: {cols.MatchStatus: "UNMATCHED"},
	}

	links := LinksFromResult(result, cols)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	byID := map[int]Link{}
	for _, l := range links {
		byID[l.XID] = l
	}
	if byID[1].MatchStatus != "MATCHED" || byID[1].YIDs != "1" {
		t.Fatalf("unexpected link for x=1: %+v", byID[1])
	}
	if byID[2].MatchStatus != "UNMATCHED" || byID[2].YIDs != "" {
		t.Fatalf("unexpected link for x=2: %+v", byID[2])
	}
}
