package recordmatcher

import "testing"

func assemblerFixture() (Table, Table, *Config) {
	x := Table{
		1: {"name": "ada", "email": "a@x.com"},
		2: {"name": "bob", "email": "nobody@x.com"},
	}
	y := Table{
		1: {"yid": "1", "name": "ada", "email": "a@x.com"},
	}
	cfg := NewConfig(NewRegistry())
	cfg.SetTables(x, y)
	_ = cfg.AddColumnToMatch("email", "email")
	_ = cfg.SetColumnToGet("yid", "matched_yid")
	return x, y, cfg
}

func TestMatchAssignsMatchedAboveOptimal(t *testing.T) {
	x, y, cfg := assemblerFixture()
	m := NewMatcher()

	result, summary, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result[1][m.Columns.MatchStatus] != "MATCHED" {
		t.Fatalf("row 1 status = %q, want MATCHED", result[1][m.Columns.MatchStatus])
	}
	if result[1]["matched_yid"] != "1" {
		t.Fatalf("row 1 matched_yid = %q, want 1", result[1]["matched_yid"])
	}
	if summary["MATCHED"] != 1 {
		t.Fatalf("summary[MATCHED] = %d, want 1", summary["MATCHED"])
	}
}

func TestMatchAssignsUnmatchedBelowRequiredThreshold(t *testing.T) {
	x, y, cfg := assemblerFixture()
	m := NewMatcher()

	result, summary, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result[2][m.Columns.MatchStatus] != "UNMATCHED" {
		t.Fatalf("row 2 status = %q, want UNMATCHED", result[2][m.Columns.MatchStatus])
	}
	if _, ok := result[2]["matched_yid"]; ok {
		t.Fatalf("row 2 should have no copied columns_to_get value, got %q", result[2]["matched_yid"])
	}
	if summary["UNMATCHED"] != 1 {
		t.Fatalf("summary[UNMATCHED] = %d, want 1", summary["UNMATCHED"])
	}
}

func TestMatchAmbiguousWhenMultiplePassThreshold(t *testing.T) {
	x := Table{1: {"email": "a@x.com"}}
	y := Table{
		1: {"email": "a@x.com"},
		2: {"email": "a@x.com"},
	}
	cfg := NewConfig(NewRegistry())
	cfg.SetTables(x, y)
	_ = cfg.AddColumnToMatch("email", "email")

	m := NewMatcher()
	result, summary, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result[1][m.Columns.MatchStatus] != "AMBIGUOUS" {
		t.Fatalf("status = %q, want AMBIGUOUS", result[1][m.Columns.MatchStatus])
	}
	if summary["AMBIGUOUS"] != 1 {
		t.Fatalf("summary[AMBIGUOUS] = %d, want 1", summary["AMBIGUOUS"])
	}
}

func TestMatchEmptyColumnNeverDragsScoreBelowItsOwnOptimal(t *testing.T) {
	x := Table{1: {"email": "a@x.com", "name": ""}}
	y := Table{1: {"email": "a@x.com", "name": "ada"}}
	cfg := NewConfig(NewRegistry())
	cfg.SetTables(x, y)
	_ = cfg.AddColumnToMatch("email", "email")
	_ = cfg.AddColumnToMatch("name", "name")
	_ = cfg.SetThresholdForColumn("email", 75)
	_ = cfg.SetThresholdForColumn("name", 75)

	m := NewMatcher()
	m.RequiredThreshold = 50
	result, _, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	// name is empty on the x side, so it drops out of the matchable
	// set and email alone (weight 1, score 100) drives both the match
	// score and the optimal threshold: 100 > 75, so this is MATCHED,
	// not REVIEW. This test documents that an empty column never
	// drags the candidate below its own optimal.
	if result[1][m.Columns.MatchStatus] != "MATCHED" {
		t.Fatalf("status = %q, want MATCHED", result[1][m.Columns.MatchStatus])
	}
}

func TestMatchReviewWhenScoreAtOrBelowOptimal(t *testing.T) {
	x := Table{
		1: {"email": "a@x.com", "name": "ada"},
		2: {"email": "b@x.com", "name": "bob"},
	}
	y := Table{1: {"email": "a@x.com", "name": "different"}}
	cfg := NewConfig(NewRegistry())
	cfg.SetTables(x, y)
	_ = cfg.AddColumnToMatch("email", "email")
	_ = cfg.AddColumnToMatch("name", "name")
	_ = cfg.SetThresholdForColumn("email", 75)
	_ = cfg.SetThresholdForColumn("name", 75)

	m := NewMatcher()
	m.RequiredThreshold = 40

	result, summary, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	// email and name are equally weighted (each column is fully
	// unique over the two x rows). Only email agrees with y, so the
	// composite score (50) clears RequiredThreshold but falls at or
	// below the optimal (75) this row's configured columns imply.
	if result[1][m.Columns.MatchStatus] != "REVIEW" {
		t.Fatalf("status = %q, want REVIEW", result[1][m.Columns.MatchStatus])
	}
	if summary["REVIEW"] != 1 {
		t.Fatalf("summary[REVIEW] = %d, want 1", summary["REVIEW"])
	}
}

func TestMatchDuplicateWhenTiedTopScores(t *testing.T) {
	x := Table{
		1: {"email": "a@x.com"},
		2: {"email": "a@x.com"},
	}
	y := Table{1: {"email": "a@x.com"}}
	cfg := NewConfig(NewRegistry())
	cfg.SetTables(x, y)
	_ = cfg.AddColumnToMatch("email", "email")

	m := NewMatcher()
	result, summary, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result[1][m.Columns.MatchStatus] != "DUPLICATE" || result[2][m.Columns.MatchStatus] != "DUPLICATE" {
		t.Fatalf("expected both rows DUPLICATE, got %q / %q",
			result[1][m.Columns.MatchStatus], result[2][m.Columns.MatchStatus])
	}
	if summary["DUPLICATE"] != 2 {
		t.Fatalf("summary[DUPLICATE] = %d, want 2", summary["DUPLICATE"])
	}
}

func TestMatchDemotesLowerScoreWhenGapExceedsDuplicateThreshold(t *testing.T) {
	x := Table{
		1: {"email": "a@x.com", "name": "ada"},
		2: {"email": "a@x.com", "name": "nope"},
	}
	y := Table{1: {"email": "a@x.com", "name": "ada"}}
	cfg := NewConfig(NewRegistry())
	cfg.SetTables(x, y)
	_ = cfg.AddColumnToMatch("email", "email")
	_ = cfg.AddColumnToMatch("name", "name")

	m := NewMatcher()
	m.RequiredThreshold = 20
	m.DuplicateThreshold = 10

	result, summary, err := m.Match(x, y, cfg, nil)
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if result[1][m.Columns.MatchStatus] != "MATCHED" && result[1][m.Columns.MatchStatus] != "REVIEW" {
		t.Fatalf("row 1 (higher score) status = %q, want it to keep its pass-1 classification", result[1][m.Columns.MatchStatus])
	}
	if result[2][m.Columns.MatchStatus] != "UNMATCHED" {
		t.Fatalf("row 2 (lower score) status = %q, want UNMATCHED after demotion", result[2][m.Columns.MatchStatus])
	}
	if summary["UNMATCHED"] != 1 {
		t.Fatalf("summary[UNMATCHED] = %d, want 1 (the demoted row)", summary["UNMATCHED"])
	}
}

func TestMatchProgressCallbackAbortsOnError(t *testing.T) {
	x, y, cfg := assemblerFixture()
	m := NewMatcher()

	boom := errBoom("stop")
	_, _, err := m.Match(x, y, cfg, func(xID int) error { return boom })
	if err == nil {
		t.Fatalf("expected Match to propagate the progress callback's error")
	}
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	x, y, cfg := assemblerFixture()
	xSnapshot := x.Copy()

	m := NewMatcher()
	if _, _, err := m.Match(x, y, cfg, nil); err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	for id, rec := range xSnapshot {
		for col, val := range rec {
			if x[id][col] != val {
				t.Fatalf("input table x mutated at row %d column %s", id, col)
			}
		}
	}
}

type errBoom string

func (e errBoom) Error() string { return string(e) }
