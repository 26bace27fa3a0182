package recordmatcher

import "testing"

func collectColumnMatch(seq func(yield func(int, float64) bool)) map[int]float64 {
	out := make(map[int]float64)
	seq(func(id int, score float64) bool {
		out[id] = score
		return true
	})
	return out
}

func TestColumnMatchKeepsBestAcrossYCols(t *testing.T) {
	xRow := Record{"name": "ada"}
	ySub := Table{
		1: {"first": "bob", "nick": "ada"},
		2: {"first": "cid", "nick": "eve"},
	}

	got := collectColumnMatch(ColumnMatch(xRow, ySub, "name", []string{"first", "nick"}, ExactMatchScorer, 75, false))

	if got[1] != 100 {
		t.Fatalf("row 1 score = %v, want 100 (matched via nick)", got[1])
	}
	if _, ok := got[2]; ok {
		t.Fatalf("row 2 should not pass (score 0 is filtered without cutoff), got %v", got[2])
	}
}

func TestColumnMatchCutoffUsesThreshold(t *testing.T) {
	xRow := Record{"name": "ada"}
	ySub := Table{
		1: {"first": "ada"},
		2: {"first": "bob"},
	}

	got := collectColumnMatch(ColumnMatch(xRow, ySub, "name", []string{"first"}, ExactMatchScorer, 50, true))

	if _, ok := got[1]; !ok {
		t.Fatalf("row 1 should pass with score 100 >= threshold 50")
	}
	if _, ok := got[2]; ok {
		t.Fatalf("row 2 scored 0, below threshold 50, should not appear: %v", got)
	}
}

func TestColumnMatchWithoutCutoffKeepsAnyPositiveScore(t *testing.T) {
	xRow := Record{"name": "ada"}
	scorer := func(x, y string) float64 {
		if x == y {
			return 100
		}
		return 10
	}
	ySub := Table{
		1: {"first": "ada"},
		2: {"first": "bob"},
	}

	got := collectColumnMatch(ColumnMatch(xRow, ySub, "name", []string{"first"}, scorer, 75, false))

	if len(got) != 2 {
		t.Fatalf("expected both rows to pass (scores > 0) without cutoff, got %v", got)
	}
}

func TestColumnMatchEmptyYColsScoresZero(t *testing.T) {
	xRow := Record{"name": "ada"}
	ySub := Table{1: {"first": "ada"}}

	got := collectColumnMatch(ColumnMatch(xRow, ySub, "name", nil, ExactMatchScorer, 75, false))
	if len(got) != 0 {
		t.Fatalf("expected no matches when y_cols is empty, got %v", got)
	}
}

func TestColumnMatchStopsEarlyWhenCallerStops(t *testing.T) {
	xRow := Record{"name": "ada"}
	ySub := Table{
		1: {"first": "ada"},
		2: {"first": "ada"},
		3: {"first": "ada"},
	}

	seen := 0
	ColumnMatch(xRow, ySub, "name", []string{"first"}, ExactMatchScorer, 75, false)(func(id int, score float64) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Fatalf("iterator continued past caller stop: saw %d", seen)
	}
}
