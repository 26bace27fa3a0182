package recordmatcher

import "sort"

// Record maps a column name to its value. A missing key is treated as
// an empty string everywhere in this package; callers that hold
// non-string values are expected to stringify them before inserting.
type Record map[string]string

// Get returns the value stored under column, or "" if the column is
// absent from the record.
func (r Record) Get(column string) string {
	return r[column]
}

// Table is an ordered mapping from row id to Record. Row ids are
// stable for the lifetime of a matching run; iteration order
// everywhere in this package follows ascending row id.
type Table map[int]Record

// IDs returns the row ids of t in ascending order.
func (t Table) IDs() []int {
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Copy returns a shallow copy of t: a new Table value whose Records
// are themselves copied (so mutating a returned Record never affects
// t), but whose cell values are shared strings (immutable, so sharing
// is safe).
func (t Table) Copy() Table {
	out := make(Table, len(t))
	for id, rec := range t {
		recCopy := make(Record, len(rec))
		for c, v := range rec {
			recCopy[c] = v
		}
		out[id] = recCopy
	}
	return out
}

// ColumnNames returns the union of column names across every record
// in t.
func ColumnNames(t Table) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, rec := range t {
		for c := range rec {
			cols[c] = struct{}{}
		}
	}
	return cols
}

// ColumnNameSlice is ColumnNames sorted into a deterministic slice,
// convenient for tests and for rendering.
func ColumnNameSlice(t Table) []string {
	cols := ColumnNames(t)
	out := make([]string, 0, len(cols))
	for c := range cols {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
