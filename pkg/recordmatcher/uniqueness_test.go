package recordmatcher

import "testing"

func sampleTable() Table {
	return Table{
		1: {"name": "Ada", "city": "London", "zip": "E1"},
		2: {"name": "Bob", "city": "Paris", "zip": "E1"},
		3: {"name": "Cid", "city": "London", "zip": ""},
	}
}

func TestUniquenessRatio(t *testing.T) {
	tbl := sampleTable()

	if got := Uniqueness(tbl, "name"); got != 1.0 {
		t.Fatalf("Uniqueness(name) = %v, want 1.0", got)
	}
	if got := Uniqueness(tbl, "city"); got != 2.0/3.0 {
		t.Fatalf("Uniqueness(city) = %v, want %v", got, 2.0/3.0)
	}
	// zip has one distinct non-empty value (E1 appears twice, counts once; row 3 is empty) over 3 rows.
	if got := Uniqueness(tbl, "zip"); got != 1.0/3.0 {
		t.Fatalf("Uniqueness(zip) = %v, want %v", got, 1.0/3.0)
	}
}

func TestUniquenessEmptyTable(t *testing.T) {
	if got := Uniqueness(Table{}, "name"); got != 0 {
		t.Fatalf("Uniqueness of empty table = %v, want 0", got)
	}
}

func TestAdjustedUniquenessNormalizesToOne(t *testing.T) {
	tbl := sampleTable()
	cu := ColumnUniqueness(tbl)

	selected := map[string]struct{}{"name": {}, "city": {}}
	weights := AdjustedUniqueness(selected, cu)

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum < 0.999999 || sum > 1.000001 {
		t.Fatalf("weights sum to %v, want 1", sum)
	}
	if len(weights) != 2 {
		t.Fatalf("len(weights) = %d, want 2", len(weights))
	}
}

func TestAdjustedUniquenessEmptySelectionIsEmpty(t *testing.T) {
	cu := ColumnUniqueness(sampleTable())
	weights := AdjustedUniqueness(map[string]struct{}{}, cu)
	if len(weights) != 0 {
		t.Fatalf("expected empty weights, got %v", weights)
	}
}

func TestAdjustedUniquenessAllZeroIsEmpty(t *testing.T) {
	flat := map[string]float64{"a": 0, "b": 0}
	selected := map[string]struct{}{"a": {}, "b": {}}
	weights := AdjustedUniqueness(selected, flat)
	if len(weights) != 0 {
		t.Fatalf("expected empty weights when all uniqueness is 0, got %v", weights)
	}
}

func TestGroupByFiltersOnExactMatch(t *testing.T) {
	tbl := sampleTable()
	sub := GroupBy(tbl, map[string]string{"city": "London"})
	if len(sub) != 2 {
		t.Fatalf("len(sub) = %d, want 2", len(sub))
	}
	for _, rec := range sub {
		if rec.Get("city") != "London" {
			t.Fatalf("unexpected row in group: %v", rec)
		}
	}
}

func TestGroupByEmptyMapReturnsWholeTable(t *testing.T) {
	tbl := sampleTable()
	sub := GroupBy(tbl, map[string]string{})
	if len(sub) != len(tbl) {
		t.Fatalf("len(sub) = %d, want %d", len(sub), len(tbl))
	}
}

func TestDuplicatedExcludesEmptyValues(t *testing.T) {
	tbl := sampleTable()
	dups := Duplicated(tbl, "zip")
	if len(dups) != 2 {
		t.Fatalf("len(dups) = %d, want 2 (the two E1 rows)", len(dups))
	}
	for _, rec := range dups {
		if rec.Get("zip") != "E1" {
			t.Fatalf("unexpected duplicate row: %v", rec)
		}
	}
}

func TestDuplicatedNoneFound(t *testing.T) {
	tbl := sampleTable()
	dups := Duplicated(tbl, "name")
	if len(dups) != 0 {
		t.Fatalf("expected no duplicates, got %v", dups)
	}
}
