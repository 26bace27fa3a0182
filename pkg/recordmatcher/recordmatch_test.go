package recordmatcher

import "testing"

func collectRecordsMatch(x, y Table, columnsToMatch map[string][]string, columnsToGroup map[string]string, thresholds map[string]float64, cutoffs map[string]bool) map[int]RecordMatch {
	scorers := func(string) (Scorer, bool) { return ExactMatchScorer, true }
	out := make(map[int]RecordMatch)
	for rm := range RecordsMatch(x, y, columnsToMatch, columnsToGroup, scorers, thresholds, cutoffs) {
		out[rm.XID] = rm
	}
	return out
}

func TestRecordsMatchSingleColumnExact(t *testing.T) {
	x := Table{
		1: {"email": "a@x.com"},
		2: {"email": "nobody@x.com"},
	}
	y := Table{
		1: {"email": "a@x.com"},
		2: {"email": "b@x.com"},
	}
	columnsToMatch := map[string][]string{"email": {"email"}}
	thresholds := map[string]float64{"email": 75}
	cutoffs := map[string]bool{"email": false}

	results := collectRecordsMatch(x, y, columnsToMatch, nil, thresholds, cutoffs)

	row1 := results[1]
	if len(row1.Matches) != 1 || row1.Matches[0].YID != 1 || row1.Matches[0].Score != 100 {
		t.Fatalf("row 1 matches = %+v, want single match on y=1 score 100", row1.Matches)
	}
	if row1.Optimal != 75 {
		t.Fatalf("row 1 optimal = %v, want 75", row1.Optimal)
	}

	row2 := results[2]
	if len(row2.Matches) != 0 {
		t.Fatalf("row 2 matches = %+v, want none", row2.Matches)
	}
	if row2.Optimal != 75 {
		t.Fatalf("row 2 optimal = %v, want 75 (column still consumes its weight even unmatched)", row2.Optimal)
	}
}

func TestRecordsMatchTiesAreAllReturned(t *testing.T) {
	x := Table{1: {"email": "a@x.com"}}
	y := Table{
		1: {"email": "a@x.com"},
		2: {"email": "a@x.com"},
		3: {"email": "b@x.com"},
	}
	columnsToMatch := map[string][]string{"email": {"email"}}
	thresholds := map[string]float64{"email": 75}
	cutoffs := map[string]bool{"email": false}

	results := collectRecordsMatch(x, y, columnsToMatch, nil, thresholds, cutoffs)

	matches := results[1].Matches
	if len(matches) != 2 {
		t.Fatalf("expected 2 tied matches, got %+v", matches)
	}
	if matches[0].YID != 1 || matches[1].YID != 2 {
		t.Fatalf("tied matches out of ascending order: %+v", matches)
	}
}

func TestRecordsMatchGroupingRestrictsCandidates(t *testing.T) {
	x := Table{1: {"email": "a@x.com", "country": "UK"}}
	y := Table{
		1: {"email": "a@x.com", "country": "UK"},
		2: {"email": "a@x.com", "country": "FR"},
	}
	columnsToMatch := map[string][]string{"email": {"email"}}
	columnsToGroup := map[string]string{"country": "country"}
	thresholds := map[string]float64{"email": 75}
	cutoffs := map[string]bool{"email": false}

	results := collectRecordsMatch(x, y, columnsToMatch, columnsToGroup, thresholds, cutoffs)

	matches := results[1].Matches
	if len(matches) != 1 || matches[0].YID != 1 {
		t.Fatalf("grouping should restrict candidates to y=1, got %+v", matches)
	}
}

func TestRecordsMatchEmptyXValueExcludesColumnFromMatchable(t *testing.T) {
	x := Table{1: {"email": "", "name": "ada"}}
	y := Table{1: {"email": "", "name": "ada"}}
	columnsToMatch := map[string][]string{
		"email": {"email"},
		"name":  {"name"},
	}
	thresholds := map[string]float64{"email": 75, "name": 75}
	cutoffs := map[string]bool{"email": false, "name": false}

	results := collectRecordsMatch(x, y, columnsToMatch, nil, thresholds, cutoffs)

	row := results[1]
	// only "name" is non-empty on x, so it alone carries the full weight
	// and the full optimal threshold; "email" contributes nothing even
	// though x and y agree (both empty: ColumnMatch yields 100 for it,
	// but its weight is 0, so it adds 0 to the composite).
	if row.Optimal != 75 {
		t.Fatalf("optimal = %v, want 75 (only name's threshold, weighted to 1)", row.Optimal)
	}
	if len(row.Matches) != 1 || row.Matches[0].Score != 100 {
		t.Fatalf("matches = %+v, want single match scored 100 via name alone", row.Matches)
	}
}

func TestRecordsMatchUnknownScorerSkipsColumn(t *testing.T) {
	x := Table{1: {"email": "a@x.com"}}
	y := Table{1: {"email": "a@x.com"}}
	columnsToMatch := map[string][]string{"email": {"email"}}
	thresholds := map[string]float64{"email": 75}
	cutoffs := map[string]bool{"email": false}

	noScorers := func(string) (Scorer, bool) { return nil, false }
	results := make(map[int]RecordMatch)
	for rm := range RecordsMatch(x, y, columnsToMatch, nil, noScorers, thresholds, cutoffs) {
		results[rm.XID] = rm
	}

	if len(results[1].Matches) != 0 {
		t.Fatalf("expected no matches when the scorer can't be resolved, got %+v", results[1].Matches)
	}
}
