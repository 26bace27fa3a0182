package recordmatcher

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Status is the semantic outcome of matching one X row against Y.
type Status int

const (
	StatusUnmatched Status = iota
	StatusMatched
	StatusAmbiguous
	StatusReview
	StatusDuplicate
)

// defaultStatusLabels are the values written into the match_status
// column; callers may override them with Matcher.StatusLabels.
var defaultStatusLabels = map[Status]string{
	StatusUnmatched: "UNMATCHED",
	StatusMatched:   "MATCHED",
	StatusAmbiguous: "AMBIGUOUS",
	StatusReview:    "REVIEW",
	StatusDuplicate: "DUPLICATE",
}

// ResultColumns names the three reserved columns Match adds to every
// X row.
type ResultColumns struct {
	MatchStatus    string
	MatchedWithRow string
	MatchScore     string
}

// DefaultResultColumns are the column names used unless overridden.
func DefaultResultColumns() ResultColumns {
	return ResultColumns{
		MatchStatus:    "match_status",
		MatchedWithRow: "row(s)_matched",
		MatchScore:     "match_score",
	}
}

// Summary counts how many times each status label was assigned over
// the course of a Match call. Counting follows the two-pass algorithm
// literally: a row reclassified in pass 2 (to DUPLICATE, or demoted to
// UNMATCHED) adds to that label's count without retracting its pass-1
// count, so totals can exceed len(X) for a run with collisions. Read
// the result table's match_status column for each row's single final
// status; Summary is a histogram of classification events, not of
// rows.
type Summary map[string]int

// ProgressFunc is invoked once per X row, in ascending row-id order,
// during pass 1 of Match. Returning a non-nil error aborts the run;
// Match returns that error wrapped with %w, so errors.Is and
// errors.As still find it.
type ProgressFunc func(xID int) error

// Matcher applies match-status semantics on top of RecordsMatch:
// which candidates pass RequiredThreshold, whether a single survivor
// counts as MATCHED or REVIEW, and whether two or more X rows
// converging on the same Y row should be marked DUPLICATE.
type Matcher struct {
	// RequiredThreshold is the minimum composite score for a
	// candidate to count toward a row's match.
	RequiredThreshold float64
	// DuplicateThreshold is the score gap below which two or more X
	// rows converging on the same Y row are all marked DUPLICATE
	// rather than the lower-scoring ones being demoted to UNMATCHED.
	DuplicateThreshold float64
	// Columns names the three reserved result columns.
	Columns ResultColumns
	// StatusLabels overrides the string written for each Status. Any
	// status missing from this map falls back to its default label.
	StatusLabels map[Status]string
}

// NewMatcher returns a Matcher configured with the specification's
// defaults: RequiredThreshold 75, DuplicateThreshold 0.
func NewMatcher() *Matcher {
	return &Matcher{
		RequiredThreshold:  75.0,
		DuplicateThreshold: 0.0,
		Columns:            DefaultResultColumns(),
	}
}

func (m *Matcher) label(s Status) string {
	if m.StatusLabels != nil {
		if l, ok := m.StatusLabels[s]; ok {
			return l
		}
	}
	return defaultStatusLabels[s]
}

type xMatch struct {
	xID   int
	score float64
}

// Match runs RecordsMatch over x and y using cfg's wiring, classifies
// every X row, resolves Y-side duplicates, and returns an annotated
// copy of x plus a classification Summary. x and y are never mutated.
func (m *Matcher) Match(x, y Table, cfg *Config, progress ProgressFunc) (Table, Summary, error) {
	result := x.Copy()
	summary := Summary{}
	columnsToGet := cfg.ColumnsToGet()

	yToX := make(map[int][]xMatch)

	for rm := range RecordsMatch(x, y, cfg.ColumnsToMatch(), cfg.ColumnsToGroup(), cfg.Scorer, cfg.ThresholdsByColumn(), cfg.CutoffsByColumn()) {
		var passed []Candidate
		for _, c := range rm.Matches {
			if c.Score >= m.RequiredThreshold {
				passed = append(passed, c)
			}
		}

		var status Status
		switch {
		case len(passed) == 0:
			status = StatusUnmatched
			nullifyDestinations(result[rm.XID], columnsToGet)
		case len(passed) > 1:
			status = StatusAmbiguous
			nullifyDestinations(result[rm.XID], columnsToGet)
		default:
			cand := passed[0]
			if cand.Score <= rm.Optimal {
				status = StatusReview
			} else {
				status = StatusMatched
			}
			for yCol, xCol := range columnsToGet {
				result[rm.XID][xCol] = y[cand.YID].Get(yCol)
			}
			yToX[cand.YID] = append(yToX[cand.YID], xMatch{xID: rm.XID, score: cand.Score})
		}

		result[rm.XID][m.Columns.MatchStatus] = m.label(status)
		result[rm.XID][m.Columns.MatchedWithRow] = joinIDs(passed)
		result[rm.XID][m.Columns.MatchScore] = joinScores(passed)
		summary[m.label(status)]++

		if progress != nil {
			if err := progress(rm.XID); err != nil {
				return nil, nil, fmt.Errorf("match: progress callback: %w", err)
			}
		}
	}

	for yID, matches := range yToX {
		if len(matches) <= 1 {
			continue
		}

		maxScore, minScore := matches[0].score, matches[0].score
		for _, xm := range matches[1:] {
			if xm.score > maxScore {
				maxScore = xm.score
			}
			if xm.score < minScore {
				minScore = xm.score
			}
		}

		var tops int
		for _, xm := range matches {
			if xm.score == maxScore {
				tops++
			}
		}

		if tops > 1 || math.Abs(maxScore-minScore) < m.DuplicateThreshold {
			for _, xm := range matches {
				result[xm.xID][m.Columns.MatchStatus] = m.label(StatusDuplicate)
				summary[m.label(StatusDuplicate)]++
			}
			continue
		}

		for _, xm := range matches {
			if xm.score == maxScore {
				continue
			}
			nullifyDestinations(result[xm.xID], columnsToGet)
			result[xm.xID][m.Columns.MatchStatus] = m.label(StatusUnmatched)
			result[xm.xID][m.Columns.MatchedWithRow] = ""
			result[xm.xID][m.Columns.MatchScore] = ""
			summary[m.label(StatusUnmatched)]++
		}
		_ = yID
	}

	return result, summary, nil
}

func nullifyDestinations(rec Record, columnsToGet map[string]string) {
	for _, dest := range columnsToGet {
		delete(rec, dest)
	}
}

func joinIDs(passed []Candidate) string {
	if len(passed) == 0 {
		return ""
	}
	parts := make([]string, len(passed))
	for i, c := range passed {
		parts[i] = strconv.Itoa(c.YID)
	}
	return strings.Join(parts, ", ")
}

func joinScores(passed []Candidate) string {
	if len(passed) == 0 {
		return ""
	}
	parts := make([]string, len(passed))
	for i, c := range passed {
		parts[i] = strconv.FormatFloat(c.Score, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
