package benchmark

import (
	"strconv"
	"strings"

	"github.com/jtai-dev/record-matcher/benchmark/goldenset"
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
)

// ComputeMetrics scores result against g's answer key. A row's
// prediction is "no match" unless the matcher settled on exactly one
// Y candidate for it; AMBIGUOUS rows (several ids) therefore count as
// no-match predictions, same as UNMATCHED ones. DUPLICATE rows keep
// their single Y id and count as a prediction of it. A wrong single match
// counts against both precision and recall, as in standard entity
// resolution evaluation.
func ComputeMetrics(result recordmatcher.Table, g *goldenset.GoldenSet, matcher *recordmatcher.Matcher) Metrics {
	m := Metrics{TotalPairs: len(g.Pairs)}

	for _, pair := range g.Pairs {
		predicted := predictedMatch(result, pair.XID, matcher)

		switch {
		case pair.YID == 0 && predicted == 0:
			m.TrueNegatives++
		case pair.YID == 0 && predicted != 0:
			m.FalsePositives++
		case pair.YID != 0 && predicted == pair.YID:
			m.TruePositives++
		case pair.YID != 0 && predicted == 0:
			m.FalseNegatives++
		default:
			// predicted a different Y row than expected: wrong on both counts.
			m.FalsePositives++
			m.FalseNegatives++
		}
	}

	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		m.Recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}

// predictedMatch returns the single Y row id result settled on for
// xID, or 0 if it resolved to zero or multiple candidates.
func predictedMatch(result recordmatcher.Table, xID int, matcher *recordmatcher.Matcher) int {
	rec, ok := result[xID]
	if !ok {
		return 0
	}
	raw := rec.Get(matcher.Columns.MatchedWithRow)
	if raw == "" {
		return 0
	}
	ids := strings.Split(raw, ", ")
	if len(ids) != 1 {
		return 0
	}
	yID, err := strconv.Atoi(ids[0])
	if err != nil {
		return 0
	}
	return yID
}
