package recordmatcher

import "iter"

// ColumnMatch scores xRow's value in xCol against every row of ySub,
// comparing against each column in yCols and keeping the best score
// per Y row. It is a pull-based iterator: nothing is scored until the
// caller ranges over the result, so a caller that stops early (e.g.
// Matcher.Match short-circuiting on an error) never pays for the
// columns it didn't look at.
//
// A Y row is yielded iff cutoff is false and its score is > 0, or
// cutoff is true and its score is >= threshold. Iteration follows
// ySub's ascending row-id order. A missing cell on either side is
// treated as "".
func ColumnMatch(xRow Record, ySub Table, xCol string, yCols []string, scorer Scorer, threshold float64, cutoff bool) iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		xVal := xRow.Get(xCol)

		for _, yID := range ySub.IDs() {
			yRow := ySub[yID]

			var best float64
			hasCols := len(yCols) > 0
			for i, yCol := range yCols {
				s := scorer(xVal, yRow.Get(yCol))
				if i == 0 || s > best {
					best = s
				}
			}
			if !hasCols {
				best = 0
			}

			passes := best > 0
			if cutoff {
				passes = best >= threshold
			}
			if !passes {
				continue
			}
			if !yield(yID, best) {
				return
			}
		}
	}
}
