package scorers

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// NormalizedExactMatch scores 100 when x and y are equal after
// Unicode NFKC normalization and case folding, 0 otherwise. It exists
// for columns where "Müller" and "MÜLLER" (or full-width vs
// half-width forms) should be treated as the same value, something
// exact_match's byte-for-byte comparison cannot do.
func NormalizedExactMatch(x, y string) float64 {
	if normalizeForMatch(x) == normalizeForMatch(y) {
		return 100
	}
	return 0
}

func normalizeForMatch(s string) string {
	return foldCaser.String(norm.NFKC.String(s))
}
