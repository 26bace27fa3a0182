package recordmatcher

// Uniqueness returns the cardinality-to-size ratio of column in t:
// the number of distinct non-empty values in that column divided by
// the number of rows in t. An empty table has uniqueness 0. An empty
// string in a cell counts as absent, not as a distinct value.
func Uniqueness(t Table, column string) float64 {
	if len(t) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	for _, rec := range t {
		if v := rec.Get(column); v != "" {
			seen[v] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(t))
}

// ColumnUniqueness computes Uniqueness for every column in t, once,
// so that repeated lookups (one per X row during matching) don't
// re-scan the table.
func ColumnUniqueness(t Table) map[string]float64 {
	cols := ColumnNames(t)
	out := make(map[string]float64, len(cols))
	for c := range cols {
		out[c] = Uniqueness(t, c)
	}
	return out
}

// AdjustedUniqueness restricts columnUniqueness to selectedCols and
// normalizes the remaining values so they sum to 1. If every selected
// column has uniqueness 0 (or selectedCols is empty), the result is
// empty: callers should treat a missing key as weight 0.
func AdjustedUniqueness(selectedCols map[string]struct{}, columnUniqueness map[string]float64) map[string]float64 {
	if len(selectedCols) == 0 {
		return map[string]float64{}
	}

	type pair struct {
		col string
		u   float64
	}
	selected := make([]pair, 0, len(selectedCols))
	var sum float64
	for c := range selectedCols {
		u := columnUniqueness[c]
		selected = append(selected, pair{c, u})
		sum += u
	}

	out := make(map[string]float64, len(selected))
	if sum <= 0 {
		return out
	}
	for _, p := range selected {
		out[p.col] = p.u / sum
	}
	return out
}

// GroupBy returns the subset of t (preserving row ids) whose records
// match columnMap exactly: for every (column, value) pair, the row's
// value in column (absent treated as "") must equal value. An empty
// columnMap returns t itself, unfiltered — callers must not mutate the
// result in that case.
func GroupBy(t Table, columnMap map[string]string) Table {
	if len(columnMap) == 0 {
		return t
	}

	out := make(Table)
	for id, rec := range t {
		match := true
		for col, val := range columnMap {
			if rec.Get(col) != val {
				match = false
				break
			}
		}
		if match {
			out[id] = rec
		}
	}
	return out
}

// Duplicated returns, in ascending row-id order, every row of t whose
// value in column occurs more than once across t. Empty values are
// excluded from the counting and can never be reported as duplicated.
func Duplicated(t Table, column string) []Record {
	counts := make(map[string]int)
	for _, rec := range t {
		if v := rec.Get(column); v != "" {
			counts[v]++
		}
	}

	var out []Record
	for _, id := range t.IDs() {
		rec := t[id]
		if v := rec.Get(column); v != "" && counts[v] > 1 {
			out = append(out, rec)
		}
	}
	return out
}
