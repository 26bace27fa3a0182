package recordmatcher

import (
	"iter"
	"sort"
)

// Candidate is one right-table row matched against a left-table row,
// with its composite score.
type Candidate struct {
	YID   int
	Score float64
}

// RecordMatch is the record-level matcher's result for a single X
// row: the row's id, the set of tied best-scoring Y candidates (empty
// if ColumnMatch yielded no Y row for any column; a candidate can
// score 0 when only zero-weight columns agreed), and the optimal
// threshold that row's
// configured columns would need to hit for a perfect-by-configuration
// match.
type RecordMatch struct {
	XID     int
	Matches []Candidate
	Optimal float64
}

// RecordsMatch drives ColumnMatch across every column in
// columnsToMatch for every row of x, weighting each column's
// contribution by its adjusted uniqueness (computed once over x) and
// restricting candidates to the subset of y selected by
// columnsToGroup. It is a pull-based iterator so a caller can stop
// after any row (e.g. once a progress callback signals cancellation).
//
// Column iteration within a row follows the lexical order of the
// x-column names, so that summation order — and therefore the exact
// floating-point result — is identical across repeated invocations
// with the same Config, independent of Go's randomized map iteration.
func RecordsMatch(x, y Table, columnsToMatch map[string][]string, columnsToGroup map[string]string, scorers func(string) (Scorer, bool), thresholds map[string]float64, cutoffs map[string]bool) iter.Seq[RecordMatch] {
	orderedXCols := make([]string, 0, len(columnsToMatch))
	for xc := range columnsToMatch {
		orderedXCols = append(orderedXCols, xc)
	}
	sort.Strings(orderedXCols)

	xUniqueness := ColumnUniqueness(x)

	return func(yield func(RecordMatch) bool) {
		for _, xID := range x.IDs() {
			xRow := x[xID]

			matchable := make(map[string]struct{})
			for _, xc := range orderedXCols {
				if xRow.Get(xc) != "" {
					matchable[xc] = struct{}{}
				}
			}

			weights := AdjustedUniqueness(matchable, xUniqueness)

			groupMap := make(map[string]string, len(columnsToGroup))
			for yc, xc := range columnsToGroup {
				groupMap[yc] = xRow.Get(xc)
			}
			ySub := GroupBy(y, groupMap)

			acc := make(map[int]float64)
			for _, xc := range orderedXCols {
				yCols := columnsToMatch[xc]
				scorer, ok := scorers(xc)
				if !ok {
					continue
				}
				weight := weights[xc]

				for yID, score := range ColumnMatch(xRow, ySub, xc, yCols, scorer, thresholds[xc], cutoffs[xc]) {
					acc[yID] += score * weight
				}
			}

			var best float64
			first := true
			for _, score := range acc {
				if first || score > best {
					best = score
					first = false
				}
			}

			var matches []Candidate
			if !first {
				for _, yID := range ySub.IDs() {
					score, ok := acc[yID]
					if !ok || score != best {
						continue
					}
					matches = append(matches, Candidate{YID: yID, Score: score})
				}
			}

			var optimal float64
			for xc := range matchable {
				optimal += thresholds[xc] * weights[xc]
			}

			if !yield(RecordMatch{XID: xID, Matches: matches, Optimal: optimal}) {
				return
			}
		}
	}
}
